package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/lestrrat-go/jwx/jwk"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/TusharRokade31/dharamshala_backend/config"
	"github.com/TusharRokade31/dharamshala_backend/middleware"
	"github.com/TusharRokade31/dharamshala_backend/models"
)

const googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

// GoogleAuthService handles Google Sign-In
type GoogleAuthService struct {
	DB *mongo.Client
}

// NewGoogleAuthService creates a new Google auth service
func NewGoogleAuthService(db *mongo.Client) *GoogleAuthService {
	return &GoogleAuthService{DB: db}
}

// googleClaims are the ID token claims we rely on
type googleClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.StandardClaims
}

// verifyIDToken checks the token signature against Google's published JWKS
// and returns its claims
func (s *GoogleAuthService) verifyIDToken(ctx context.Context, idToken string) (*googleClaims, error) {
	jwkSet, err := jwk.Fetch(ctx, googleJWKSURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Google public keys: %w", err)
	}

	claims := &googleClaims{}
	token, err := jwt.ParseWithClaims(idToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		kid, ok := token.Header["kid"].(string)
		if !ok {
			return nil, errors.New("missing kid header")
		}

		key, found := jwkSet.LookupKeyID(kid)
		if !found {
			return nil, errors.New("google public key not found")
		}

		var pubkey interface{}
		if err := key.Raw(&pubkey); err != nil {
			return nil, fmt.Errorf("failed to parse Google public key: %w", err)
		}
		return pubkey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid Google ID token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid Google ID token")
	}
	if claims.Email == "" || claims.Subject == "" {
		return nil, errors.New("google token missing email or subject")
	}

	return claims, nil
}

// AuthenticateUser verifies the ID token, upserts the account and issues
// application tokens
func (s *GoogleAuthService) AuthenticateUser(idToken string) (*models.LoginData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	claims, err := s.verifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}

	usersCollection := config.GetCollection(s.DB, "users")

	var user models.User
	err = usersCollection.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		user = models.User{
			ID:        primitive.NewObjectID(),
			Email:     claims.Email,
			FullName:  claims.Name,
			UserType:  "user",
			GoogleID:  claims.Subject,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if claims.Picture != "" {
			user.ProfilePic = claims.Picture
		}
		if _, err := usersCollection.InsertOne(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	} else if user.GoogleID == "" {
		// Link the Google account to an existing email/password user
		_, err = usersCollection.UpdateOne(ctx,
			bson.M{"_id": user.ID},
			bson.M{"$set": bson.M{"googleId": claims.Subject, "updatedAt": time.Now()}})
		if err != nil {
			return nil, fmt.Errorf("failed to link Google account: %w", err)
		}
	}

	token, refreshToken, err := middleware.GenerateJWT(user.ID.Hex(), user.Email, user.UserType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	user.Password = ""
	return &models.LoginData{
		Token:        token,
		RefreshToken: refreshToken,
		User:         &user,
	}, nil
}
