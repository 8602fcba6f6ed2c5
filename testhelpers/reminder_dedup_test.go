package testhelpers

import (
	"context"
	"testing"
	"time"

	"vendortrack/internal/models"
	"vendortrack/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises the reminder uniqueness constraint against a real database:
// two inserts for the same (service, type, day) must produce one row.
func TestReminderDedupAgainstDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := SetupTestDB(t, "")
	defer testDB.Cleanup()

	userID := SetupTestUser(t, testDB)
	vendor := SetupTestVendor(t, testDB, userID)
	service := SetupTestService(t, testDB, vendor.ID, userID, 5)

	repo := repositories.NewReminderRepository(testDB.Pool)
	day := models.DateOf(time.Now())

	first := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    service.ID,
		ReminderType: models.ReminderTypeExpiry,
		ReminderDate: day,
	}
	created, err := repo.CreateIfAbsent(context.Background(), first)
	require.NoError(t, err)
	assert.True(t, created)

	require.NoError(t, repo.MarkSent(context.Background(), first.ID, time.Now().UTC()))

	second := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    service.ID,
		ReminderType: models.ReminderTypeExpiry,
		ReminderDate: day,
	}
	created, err = repo.CreateIfAbsent(context.Background(), second)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsSent)

	// A payment reminder for the same day is a different key
	payment := &models.ServiceReminder{
		ID:           uuid.New(),
		ServiceID:    service.ID,
		ReminderType: models.ReminderTypePayment,
		ReminderDate: day,
	}
	created, err = repo.CreateIfAbsent(context.Background(), payment)
	require.NoError(t, err)
	assert.True(t, created)
}
