package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// dateLayout is the key format of a usage day
const dateLayout = "2006-01-02"

// Generation is a stored piece of generated copy with its quality report
type Generation struct {
	ID           uuid.UUID       `json:"id"`
	UserKey      string          `json:"user_key"`
	Keyword      string          `json:"keyword"`
	ContentType  string          `json:"content_type"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	QualityScore int             `json:"quality_score"`
	QualityGrade string          `json:"quality_grade"`
	Report       json.RawMessage `json:"report"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DayKey formats the UTC calendar day of t
func DayKey(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

// UTCDay truncates t to midnight of its UTC calendar day
func UTCDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
