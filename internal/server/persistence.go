package server

import (
	"encoding/json"
	"errors"
	"time"

	"poker-front/internal/api"
	"poker-front/internal/db"
	"poker-front/internal/poker"

	"github.com/jackc/pgconn"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordAction appends one relayed action to the audit log.
func (s *Server) recordAction(tableID string, action poker.Action, accepted bool) error {
	if s.db == nil {
		return nil
	}
	payload, err := json.Marshal(action)
	if err != nil {
		return err
	}
	record := db.ActionLog{
		TableID:  tableID,
		UserID:   action.UserID,
		Action:   string(action.Action),
		Amount:   action.Amount,
		Accepted: accepted,
		Payload:  datatypes.JSON(payload),
	}
	return s.db.Create(&record).Error
}

// recordJoin keeps the latest join outcome for a user at a table.
func (s *Server) recordJoin(tableID, userID string, result api.JoinResult) error {
	if s.db == nil {
		return nil
	}
	record := db.JoinAttempt{
		TableID: tableID,
		UserID:  userID,
		Success: result.Success,
		Message: result.Message,
	}
	err := s.db.Create(&record).Error
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	return s.db.Model(&db.JoinAttempt{}).
		Where("table_id = ? AND user_id = ?", tableID, userID).
		Updates(map[string]any{
			"success":    result.Success,
			"message":    result.Message,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (s *Server) listActions(tableID string, query actionLogQuery) ([]actionLogEntry, int64, error) {
	filter := func(tx *gorm.DB) *gorm.DB {
		tx = tx.Where("table_id = ?", tableID)
		if query.UserID != "" {
			tx = tx.Where("user_id = ?", query.UserID)
		}
		if query.Action != "" {
			tx = tx.Where("action = ?", query.Action)
		}
		if query.Rejected {
			tx = tx.Where("accepted = ?", false)
		}
		return tx
	}
	var total int64
	if err := s.db.Model(&db.ActionLog{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []db.ActionLog
	if err := s.db.Scopes(filter).
		Order("created_at DESC, id DESC").
		Offset(query.offset()).
		Limit(query.PerPage).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	entries := make([]actionLogEntry, 0, len(records))
	for _, record := range records {
		entries = append(entries, actionLogEntry{
			UserID:    record.UserID,
			Action:    record.Action,
			Amount:    record.Amount,
			Accepted:  record.Accepted,
			CreatedAt: record.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return entries, total, nil
}

const uniqueViolation = "23505"

// isUniqueViolation recognises the error from both pgconn generations; the
// gorm postgres driver reports through pgx v5.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pgxErr *pgxconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == uniqueViolation
	}
	return false
}
