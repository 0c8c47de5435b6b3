package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/parkeasy/parkeasy-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// DocumentStore is the user document storage used by the bridge
type DocumentStore interface {
	CreateDocument(doc *models.UserDocument) error
	GetDocument(userID uuid.UUID) (*models.UserDocument, error)
	UpdateField(userID uuid.UUID, field models.DocumentField, value interface{}) (int64, error)
	UpsertField(userID uuid.UUID, field models.DocumentField, value interface{}) error
	ResetMonthlySearches(period string) (int64, error)
	SetPremiumByEmail(email string, premium bool) (int64, error)
}

// PersistenceBridge writes session changes through to the user document.
// Guests never touch the store.
type PersistenceBridge struct {
	store  DocumentStore
	logger *logrus.Logger
}

// NewPersistenceBridge creates a new persistence bridge
func NewPersistenceBridge(store DocumentStore, logger *logrus.Logger) *PersistenceBridge {
	return &PersistenceBridge{
		store:  store,
		logger: logger,
	}
}

// SaveField writes one field, creating the document when it is missing.
// Last write wins.
func (b *PersistenceBridge) SaveField(ctx context.Context, user models.SessionUser, field models.DocumentField, value interface{}) error {
	if user.IsGuest() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fields := logrus.Fields{
		"user_id": user.ID,
		"field":   field,
	}

	rows, err := b.store.UpdateField(user.ID, field, value)
	if err != nil {
		fields["error"] = err.Error()
		b.logger.WithFields(fields).Error("Error saving field")
		return err
	}
	if rows > 0 {
		return nil
	}

	if err := b.store.UpsertField(user.ID, field, value); err != nil {
		fields["error"] = err.Error()
		b.logger.WithFields(fields).Error("Error creating user document")
		return err
	}
	b.logger.WithFields(fields).Debug("Created missing user document on save")
	return nil
}

// CreateDocument writes the sign-up defaults for a new account
func (b *PersistenceBridge) CreateDocument(ctx context.Context, user models.SessionUser) error {
	if user.IsGuest() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	doc := models.NewUserDocument(user.ID, user.Name, user.Email, time.Now())
	if err := b.store.CreateDocument(doc); err != nil {
		b.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Error creating user document")
		return err
	}
	return nil
}

// LoadDocument reads a user's document. Guests and missing documents return nil.
func (b *PersistenceBridge) LoadDocument(ctx context.Context, user models.SessionUser) (*models.UserDocument, error) {
	if user.IsGuest() {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := b.store.GetDocument(user.ID)
	if err != nil {
		b.logger.WithFields(logrus.Fields{
			"user_id": user.ID,
			"error":   err.Error(),
		}).Error("Error loading user document")
		return nil, err
	}
	return doc, nil
}

// ResetMonthlySearches zeroes stored counters from earlier periods
func (b *PersistenceBridge) ResetMonthlySearches(period string) (int64, error) {
	n, err := b.store.ResetMonthlySearches(period)
	if err != nil {
		return 0, fmt.Errorf("failed to reset monthly searches: %w", err)
	}
	return n, nil
}

// SetPremiumByEmail marks the stored document for email as premium
func (b *PersistenceBridge) SetPremiumByEmail(email string) (int64, error) {
	n, err := b.store.SetPremiumByEmail(email, true)
	if err != nil {
		return 0, fmt.Errorf("failed to activate premium: %w", err)
	}
	return n, nil
}

func equalFoldEmail(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
