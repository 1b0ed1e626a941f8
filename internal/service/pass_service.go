package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/OmarEmad62/ATC-01111780082/internal/models"
	"github.com/OmarEmad62/ATC-01111780082/internal/repository"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

var (
	ErrInvalidPass      = errors.New("invalid booking pass")
	ErrBookingNotActive = errors.New("booking is not confirmed")
)

const passImageSize = 256

// PassService issues and checks the QR code a ticket holder shows at the door.
type PassService interface {
	Generate(ctx context.Context, bookingID, userID uuid.UUID) ([]byte, error)
	Verify(ctx context.Context, payload string) (*models.Booking, error)
	Payload(b *models.Booking) string
}

type passService struct {
	bookingRepo repository.BookingRepository
	secret      []byte
}

func NewPassService(bookingRepo repository.BookingRepository, secret string) PassService {
	return &passService{bookingRepo: bookingRepo, secret: []byte(secret)}
}

func (s *passService) Generate(ctx context.Context, bookingID, userID uuid.UUID) ([]byte, error) {
	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrForbidden
	}
	if booking.Status != models.StatusConfirmed {
		return nil, ErrBookingNotActive
	}

	png, err := qrcode.Encode(s.Payload(booking), qrcode.Medium, passImageSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// Verify checks a scanned payload and returns the booking it admits.
func (s *passService) Verify(ctx context.Context, payload string) (*models.Booking, error) {
	bookingID, signature, err := parsePayload(payload)
	if err != nil {
		return nil, err
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			return nil, ErrInvalidPass
		}
		return nil, err
	}

	expected := s.sign(booking)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, ErrInvalidPass
	}
	if booking.Status != models.StatusConfirmed {
		return nil, ErrBookingNotActive
	}
	return booking, nil
}

func (s *passService) Payload(b *models.Booking) string {
	return fmt.Sprintf("booking:%s;event:%s;signature:%s", b.ID, b.EventID, s.sign(b))
}

func (s *passService) sign(b *models.Booking) string {
	h := hmac.New(sha256.New, s.secret)
	h.Write([]byte(fmt.Sprintf("%s:%s:%s", b.ID, b.EventID, b.UserID)))
	return hex.EncodeToString(h.Sum(nil))
}

func (s *passService) findBooking(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func parsePayload(payload string) (uuid.UUID, string, error) {
	parts := strings.Split(strings.TrimSpace(payload), ";")
	if len(parts) != 3 ||
		!strings.HasPrefix(parts[0], "booking:") ||
		!strings.HasPrefix(parts[1], "event:") ||
		!strings.HasPrefix(parts[2], "signature:") {
		return uuid.Nil, "", ErrInvalidPass
	}

	id, err := uuid.Parse(strings.TrimPrefix(parts[0], "booking:"))
	if err != nil {
		return uuid.Nil, "", ErrInvalidPass
	}
	return id, strings.TrimPrefix(parts[2], "signature:"), nil
}
