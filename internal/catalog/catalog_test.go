package catalog

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"gameroom-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:catalog%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Game{}, &models.Level{}, &models.Question{}, &models.Option{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestDefaultGameAlwaysResolves(t *testing.T) {
	svc := NewService(newTestDB(t))

	game, err := svc.GetGameWithQuestions(DefaultGameID)
	if err != nil {
		t.Fatalf("default game lookup failed: %v", err)
	}
	if len(game.Questions) == 0 {
		t.Fatal("default game must ship questions")
	}
	for i, q := range game.Questions {
		if q.Answer == "" {
			t.Errorf("default question %d has no answer", i)
		}
		if len(q.Options) == 0 {
			t.Errorf("default question %d has no distractors", i)
		}
	}
}

func TestGetGameNotFound(t *testing.T) {
	svc := NewService(newTestDB(t))

	if _, err := svc.GetGameWithQuestions(12345); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
}

func TestQuestionsFlattenedAcrossLevelsInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db)

	game := models.Game{Title: "Ordered", Mode: "quiz"}
	db.Create(&game)

	// Levels created out of order on purpose; order_num decides.
	level2 := models.Level{GameID: game.ID, OrderNum: 2}
	level1 := models.Level{GameID: game.ID, OrderNum: 1}
	db.Create(&level2)
	db.Create(&level1)

	db.Create(&models.Question{LevelID: level2.ID, Text: "third", Answer: "c", OrderNum: 1})
	db.Create(&models.Question{LevelID: level1.ID, Text: "second", Answer: "b", OrderNum: 2})
	db.Create(&models.Question{LevelID: level1.ID, Text: "first", Answer: "a", OrderNum: 1})

	data, err := svc.GetGameWithQuestions(game.ID)
	if err != nil {
		t.Fatalf("GetGameWithQuestions failed: %v", err)
	}

	got := make([]string, len(data.Questions))
	for i, q := range data.Questions {
		got[i] = q.Answer
	}
	want := []string{"a", "b", "c"}
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Fatalf("flattened order = %v, want %v", got, want)
		}
	}
}
