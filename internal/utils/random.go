package utils

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"

	"freightlink/internal/models"
)

const (
	letterBytes  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberBytes  = "0123456789"
	alphanumeric = letterBytes + numberBytes
)

// GenerateRequestID builds a deterministic, human-scannable booking id:
// booking-type initial + base-36 timestamp + short random suffix. Collision
// resistant without a central sequence.
func GenerateRequestID(bookingType models.BookingType) string {
	initial := "B"
	switch bookingType {
	case models.BookingTypeAgri:
		initial = "A"
	case models.BookingTypeCargo:
		initial = "C"
	}

	timestamp := strconv.FormatInt(time.Now().UnixNano(), 36)
	suffix := strings.ToUpper(GenerateRandomString(RequestIDSuffixLength))

	return initial + timestamp + suffix
}

func GenerateRandomString(length int) string {
	return generateRandom(length, alphanumeric)
}

func GenerateRandomNumericString(length int) string {
	return generateRandom(length, numberBytes)
}

func generateRandom(length int, charset string) string {
	result := make([]byte, length)
	charsetLength := big.NewInt(int64(len(charset)))

	for i := range result {
		num, _ := rand.Int(rand.Reader, charsetLength)
		result[i] = charset[num.Int64()]
	}

	return string(result)
}

func SecureRandomInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}
