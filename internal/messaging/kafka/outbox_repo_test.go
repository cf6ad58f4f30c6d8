package kafka_test

import (
	"context"
	"testing"
	"time"

	"go-workforce/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	event := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     uuid.NewString(),
		AggregateType: "workforce_request",
		AggregateID:   uuid.NewString(),
		EventType:     "approval_requested",
		Topic:         "workforce.approval.requested.v1",
		Payload:       []byte(`{"event_type":"approval_requested"}`),
		Status:        kafka.OutboxStatusPending,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(
			event.ID, event.RequestID, event.AggregateType,
			event.AggregateID, event.EventType, event.Topic, event.Payload, event.Status,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	assert.NoError(t, err)

	repo := kafka.NewOutboxRepository(db)
	assert.NoError(t, repo.WithTx(tx).Create(context.Background(), event))
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id",
		"event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).
		AddRow(uuid.NewString(), "", "workforce_request", uuid.NewString(),
			"approval_requested", "workforce.approval.requested.v1", []byte(`{}`), kafka.OutboxStatusPending, 0, now).
		AddRow(uuid.NewString(), uuid.NewString(), "workforce_request", uuid.NewString(),
			"approval_requested", "workforce.approval.requested.v1", []byte(`{}`), kafka.OutboxStatusFailed, 2, now)

	mock.ExpectQuery("SELECT").
		WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
		WillReturnRows(rows)

	repo := kafka.NewOutboxRepository(db)
	events, err := repo.ListPending(context.Background(), 50)
	assert.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, kafka.OutboxStatusFailed, events[1].Status)
	assert.Equal(t, 2, events[1].RetryCount)
}

func TestOutboxRepository_MarkSentAndFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	id := uuid.NewString()
	repo := kafka.NewOutboxRepository(db)

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs(id, kafka.OutboxStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkSent(context.Background(), id))

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs(id, kafka.OutboxStatusFailed, "broker unreachable").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.MarkFailed(context.Background(), id, "broker unreachable"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_DeleteSentBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	cutoff := time.Now().UTC().Add(-24 * time.Hour)
	mock.ExpectExec("DELETE FROM outbox_events").
		WithArgs(kafka.OutboxStatusSent, cutoff).
		WillReturnResult(sqlmock.NewResult(0, 17))

	repo := kafka.NewOutboxRepository(db)
	deleted, err := repo.DeleteSentBefore(context.Background(), cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(17), deleted)
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := kafka.OutboxEvent{
		ID:      uuid.NewString(),
		Topic:   "workforce.approval.requested.v1",
		Payload: []byte(`{}`),
		Status:  kafka.OutboxStatusPending,
	}
	assert.NoError(t, kafka.ValidateOutboxEvent(valid))

	missingTopic := valid
	missingTopic.Topic = ""
	assert.Error(t, kafka.ValidateOutboxEvent(missingTopic))

	badStatus := valid
	badStatus.Status = "queued"
	assert.Error(t, kafka.ValidateOutboxEvent(badStatus))
}
