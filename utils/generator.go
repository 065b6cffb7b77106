package utils

import (
	"math/rand"
	"time"

	"github.com/madrefit/gym_backend/models"
	"gorm.io/gorm"
)

const codeLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomCode(seededRand *rand.Rand) string {
	b := make([]byte, codeLength)
	for i := range b {
		b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
	}
	return string(b)
}

// GenerateUniqueBookingCode returns a member-facing reference code not yet
// used by any booking.
func GenerateUniqueBookingCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		code := randomCode(seededRand)

		var booking models.BookingRecord
		err := tx.Where("code = ?", code).First(&booking).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}

// GenerateUniqueReservationCode does the same for equipment reservations.
func GenerateUniqueReservationCode(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		code := randomCode(seededRand)

		var reservation models.EquipmentReservation
		err := tx.Where("code = ?", code).First(&reservation).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return code, nil
			}
			return "", err
		}
	}
}
