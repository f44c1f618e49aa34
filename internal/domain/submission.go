package domain

import "time"

type Submission struct {
	ID               uint      `json:"id"`
	ContestID        uint      `json:"contestId"`
	ParticipantEmail string    `json:"participantEmail"`
	ParticipantName  string    `json:"participantName"`
	ParticipantPhoto string    `json:"participantPhoto"`
	Content          string    `json:"content"`
	IsWinner         bool      `json:"isWinner"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

type WinnerDeclaration struct {
	Submission Submission `json:"submission"`
	Contest    Contest    `json:"contest"`
}
