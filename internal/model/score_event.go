package model

import "time"

// ScoreRecordedEvent is the message published after a score is committed.
type ScoreRecordedEvent struct {
	ScoreID     uint      `json:"score_id"`
	ExcerptID   uint      `json:"excerpt_id"`
	WPM         int       `json:"wpm"`
	Time        int       `json:"time"`
	ErrorCount  int       `json:"error_count"`
	CreatedDate time.Time `json:"created_date"`
}

func NewScoreRecordedEvent(s *Score) ScoreRecordedEvent {
	return ScoreRecordedEvent{
		ScoreID:     s.ID,
		ExcerptID:   s.ExcerptID,
		WPM:         s.WPM,
		Time:        s.Time,
		ErrorCount:  s.ErrorCount,
		CreatedDate: s.CreatedDate,
	}
}
