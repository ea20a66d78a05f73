// utils/otp.go
package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateSecureOTP generates a numeric OTP of the given length
func GenerateSecureOTP(length int) (string, error) {
	const digits = "0123456789"
	result := make([]byte, length)
	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		result[i] = digits[num.Int64()]
	}
	return string(result), nil
}

// ValidateOTPAttempts limits OTP verification to 5 attempts per hour
func ValidateOTPAttempts(email string, redis *redis.Client) error {
	key := "otp_attempts:" + email
	attempts, err := redis.Incr(context.Background(), key).Result()
	if err != nil {
		return err
	}

	// Set expiry if first attempt
	if attempts == 1 {
		redis.Expire(context.Background(), key, 1*time.Hour)
	}

	if attempts > 5 {
		return errors.New("too many OTP attempts")
	}

	return nil
}

// ClearOTPAttempts removes the attempt counter after a successful reset
func ClearOTPAttempts(email string, redis *redis.Client) {
	redis.Del(context.Background(), "otp_attempts:"+email)
}
