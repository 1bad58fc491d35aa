package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList is a string slice persisted as a JSON array column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	if len(raw) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("decode string list: %w", err)
	}
	*l = out
	return nil
}

// SourceIdea is a stored idea record used as inspiration for generation.
type SourceIdea struct {
	ID             string     `json:"id" db:"id" validate:"omitempty,uuid"`
	Title          string     `json:"title" db:"title" validate:"required,max=500"`
	Summary        string     `json:"summary" db:"summary"`
	Description    string     `json:"description" db:"description"`
	IdeaType       string     `json:"idea_type" db:"idea_type" validate:"max=50"`
	BusinessModel  string     `json:"business_model" db:"business_model" validate:"max=50"`
	Monetization   string     `json:"monetization" db:"monetization"`
	Skills         StringList `json:"skills" db:"skills"`
	TechStack      StringList `json:"tech_stack" db:"tech_stack"`
	Difficulty     string     `json:"difficulty" db:"difficulty" validate:"omitempty,oneof=beginner intermediate experienced advanced"`
	TimeToMVP      string     `json:"time_to_mvp" db:"time_to_mvp"`
	StartupCost    string     `json:"startup_cost" db:"startup_cost"`
	TargetAudience string     `json:"target_audience" db:"target_audience"`
	Niche          string     `json:"niche" db:"niche" validate:"max=100"`
	Competition    string     `json:"competition" db:"competition"`
	KeyFeatures    StringList `json:"key_features" db:"key_features"`
	SuccessFactors StringList `json:"success_factors" db:"success_factors"`
	Challenges     StringList `json:"challenges" db:"challenges"`
	SourceVideoID  string     `json:"source_video_id" db:"source_video_id"`
	SourceChannel  string     `json:"source_channel" db:"source_channel"`
	Confidence     float64    `json:"confidence" db:"confidence" validate:"min=0,max=1"`
}

// Validate checks an incoming record before it is written to the store.
func (i *SourceIdea) Validate() error {
	i.Skills = cleanList(i.Skills)
	i.TechStack = cleanList(i.TechStack)
	return checkStruct(i)
}
