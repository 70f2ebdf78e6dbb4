package services

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
)

// newSvcDB opens a fresh in-memory database with every table migrated.
func newSvcDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func fixedClock(at time.Time) sysutil.Clock {
	return sysutil.ClockFunc(func() time.Time { return at })
}

// fullAnswers answers every question of scale with v.
func fullAnswers(t *testing.T, scale assessment.Scale, v assessment.Answer) assessment.Answers {
	t.Helper()
	def, err := assessment.DefinitionFor(scale)
	if err != nil {
		t.Fatalf("DefinitionFor(%s): %v", scale, err)
	}
	out := assessment.Answers{}
	for _, k := range def.Keys() {
		out[k] = v
	}
	return out
}
