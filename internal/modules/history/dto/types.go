package dto

import "time"

type AppendInput struct {
	WinnerID         string
	WinnerName       string
	WinnerTag        string
	WinnerExternalID string
	WinnerWeight     float64
	Prize            string
}

type EntryOutput struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	WinnerID   string    `json:"winner_id"`
	WinnerName string    `json:"winner_name"`
	WinnerTag  string    `json:"winner_tag,omitempty"`
	Prize      string    `json:"prize,omitempty"`
}

type AppendOutput struct {
	Entry    EntryOutput
	Appended bool
}

type ExportInput struct {
	Path  string
	Title string
}

type ExportOutput struct {
	Path  string
	Count int
}
