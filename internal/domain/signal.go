package domain

import (
	"encoding/json"
	"time"
)

type Stage string

const (
	StageAssessment   Stage = "Assessment"
	StagePhoneScreen  Stage = "Phone Screen"
	StageTechnical    Stage = "Technical Interview"
	StageOnsiteFinal  Stage = "Onsite / Final"
	StageScheduling   Stage = "Recruiter / Scheduling"
	StageUnclassified Stage = "Unclassified"
)

var Stages = []Stage{
	StageAssessment,
	StagePhoneScreen,
	StageTechnical,
	StageOnsiteFinal,
	StageScheduling,
	StageUnclassified,
}

func (s Stage) Valid() bool {
	for _, v := range Stages {
		if s == v {
			return true
		}
	}
	return false
}

// UnknownCompany is the company name used when nothing resolves.
const UnknownCompany = "Unknown"

// LocalTimeLayout renders start times without a zone offset.
const LocalTimeLayout = "2006-01-02T15:04:05"

// InterviewSignal is the classifier result for one email. When IsInterview is
// false every other field is zero.
type InterviewSignal struct {
	IsInterview bool
	Stage       Stage
	Company     string
	DueHint     string
	StartTime   *time.Time
	MeetingLink string
	Confidence  int
}

// CalendarReady reports whether the signal carries a concrete start time.
// A meeting link alone is not enough.
func (s InterviewSignal) CalendarReady() bool {
	return s.IsInterview && s.StartTime != nil
}

type signalJSON struct {
	IsInterview bool   `json:"is_interview"`
	Stage       Stage  `json:"stage,omitempty"`
	Company     string `json:"company,omitempty"`
	DueHint     string `json:"due_hint,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	MeetingLink string `json:"meeting_link,omitempty"`
	Confidence  int    `json:"confidence,omitempty"`
}

func (s InterviewSignal) MarshalJSON() ([]byte, error) {
	out := signalJSON{
		IsInterview: s.IsInterview,
		Stage:       s.Stage,
		Company:     s.Company,
		DueHint:     s.DueHint,
		MeetingLink: s.MeetingLink,
		Confidence:  s.Confidence,
	}
	if s.StartTime != nil {
		out.StartTime = s.StartTime.Format(LocalTimeLayout)
	}
	return json.Marshal(out)
}

func (s *InterviewSignal) UnmarshalJSON(b []byte) error {
	var in signalJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*s = InterviewSignal{
		IsInterview: in.IsInterview,
		Stage:       in.Stage,
		Company:     in.Company,
		DueHint:     in.DueHint,
		MeetingLink: in.MeetingLink,
		Confidence:  in.Confidence,
	}
	if in.StartTime != "" {
		t, err := time.ParseInLocation(LocalTimeLayout, in.StartTime, time.Local)
		if err != nil {
			return err
		}
		s.StartTime = &t
	}
	return nil
}
