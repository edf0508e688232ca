package document

import (
	"fmt"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rsichomba/portfolio-lms/model"
)

// openTestDB connects to the database named by TEST_DATABASE_DSN. Tests
// are skipped when it is unset so the suite runs without Postgres.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set, skipping database test")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Enrollment{},
		&model.Document{},
	))
	return db
}

func createTestDocument(t *testing.T, db *gorm.DB, level model.AccessLevel) *model.Document {
	t.Helper()

	doc := &model.Document{
		Title:       "Syllabus",
		Slug:        fmt.Sprintf("syllabus-%d", time.Now().UnixNano()),
		Filename:    "syllabus.pdf",
		SpacesURL:   "https://cdn.example.com/syllabus.pdf",
		SpacesKey:   "documents/syllabus.pdf",
		IsPublished: true,
		AccessLevel: level,
	}
	require.NoError(t, db.Create(doc).Error)
	return doc
}

func TestDownloadIncrementsCounterOnce(t *testing.T) {
	db := openTestDB(t)
	h := NewDocumentHandler(db, nil)

	doc := createTestDocument(t, db, model.AccessPublic)

	app := fiber.New()
	app.Get("/documents/:slug/download", h.Download)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/"+doc.Slug+"/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, doc.SpacesURL, resp.Header.Get("Location"))

	var refreshed model.Document
	require.NoError(t, db.First(&refreshed, doc.ID).Error)
	assert.Equal(t, 1, refreshed.DownloadCount)

	// A second download adds exactly one more
	resp, err = app.Test(httptest.NewRequest("GET", "/documents/"+doc.Slug+"/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTemporaryRedirect, resp.StatusCode)

	require.NoError(t, db.First(&refreshed, doc.ID).Error)
	assert.Equal(t, 2, refreshed.DownloadCount)
}

func TestDownloadDeniedDoesNotCount(t *testing.T) {
	db := openTestDB(t)
	h := NewDocumentHandler(db, nil)

	doc := createTestDocument(t, db, model.AccessRegistered)

	app := fiber.New()
	app.Get("/documents/:slug/download", h.Download)

	resp, err := app.Test(httptest.NewRequest("GET", "/documents/"+doc.Slug+"/download", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var refreshed model.Document
	require.NoError(t, db.First(&refreshed, doc.ID).Error)
	assert.Equal(t, 0, refreshed.DownloadCount)
}
