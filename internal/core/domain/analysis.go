package domain

import "time"

// ChartAnalysis is an AI-written summary of a chart built from an uploaded spreadsheet.
type ChartAnalysis struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	UploadID         string    `json:"upload_id"`
	ChartType        string    `json:"chart_type"`
	XAxis            string    `json:"x_axis"`
	YAxis            string    `json:"y_axis"`
	Summary          string    `json:"summary"`
	ChartImageBase64 string    `json:"chart_image_base64,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
