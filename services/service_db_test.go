package services

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/CesDelPino/Fitness-app-2.0-sub006/database"
	"github.com/CesDelPino/Fitness-app-2.0-sub006/models"
)

// testDB connects to the database named by TEST_DATABASE_URL, migrating it
// first. Tests needing it are skipped when the variable is unset.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	for _, table := range []string{"usage_records", "subscriptions", "coach_links", "users"} {
		require.NoError(t, db.Exec("DELETE FROM "+table).Error)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	u := &models.User{Name: "test-" + role, Email: NewInviteCode() + "@example.com", Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestConsumeDailyCountsPerDay(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "user")

	d, err := AllowDaily(db, user.ID, MetricEntries)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Used)
	assert.Equal(t, 10, d.Limit)

	for i := 0; i < 10; i++ {
		require.NoError(t, ConsumeDaily(db, user.ID, MetricEntries))
	}

	d, err = AllowDaily(db, user.ID, MetricEntries)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 10, d.Used)
	assert.Equal(t, 0, d.Remaining())

	// Counters are per metric.
	d, err = AllowDaily(db, user.ID, MetricMessages)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Used)
}

func TestPlanForExpiredSubscription(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "user")

	assert.Equal(t, "free", PlanFor(db, user.ID))

	past := time.Now().Add(-time.Hour)
	require.NoError(t, db.Create(&models.Subscription{UserID: user.ID, Plan: "pro", ExpiresAt: &past}).Error)
	assert.Equal(t, "free", PlanFor(db, user.ID))

	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ?", user.ID).
		Update("expires_at", &future).Error)
	assert.Equal(t, "pro", PlanFor(db, user.ID))
}

func TestAllowClientsCountsActiveLinks(t *testing.T) {
	db := testDB(t)
	coach := createUser(t, db, "coach")

	for i := 0; i < 2; i++ {
		client := createUser(t, db, "user")
		require.NoError(t, db.Create(&models.CoachLink{
			CoachID: coach.ID, ClientID: client.ID, Status: "active", Messaging: true,
		}).Error)
	}
	revokedClient := createUser(t, db, "user")
	require.NoError(t, db.Create(&models.CoachLink{
		CoachID: coach.ID, ClientID: revokedClient.ID, Status: "revoked",
	}).Error)

	d, err := AllowClients(db, coach.ID)
	require.NoError(t, err)
	assert.False(t, d.Allowed, "free plan caps at 2 active clients")
	assert.Equal(t, 2, d.Used, "revoked links do not count")
}

func TestFindLinkAndLinkForUser(t *testing.T) {
	db := testDB(t)
	coach := createUser(t, db, "coach")
	client := createUser(t, db, "user")
	stranger := createUser(t, db, "user")

	link, err := FindLink(db, coach.ID, client.ID)
	require.NoError(t, err)
	assert.Nil(t, link)

	require.NoError(t, db.Create(&models.CoachLink{
		CoachID: coach.ID, ClientID: client.ID, Status: "active", Messaging: true,
	}).Error)

	link, err = FindLink(db, coach.ID, client.ID)
	require.NoError(t, err)
	require.NotNil(t, link)

	got, err := LinkForUser(db, link.ID, client.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, link.ID, got.ID)

	got, err = LinkForUser(db, link.ID, stranger.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "third parties cannot see the link")
}
