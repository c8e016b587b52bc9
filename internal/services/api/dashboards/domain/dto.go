// Package domain holds DTOs for dashboards
package domain

import (
	"time"

	"datalens/internal/core/chartdata"
)

// Stream message types
const (
	MessageWidget = "widget"
	MessageDone   = "done"
	MessageError  = "error"
)

// CreateInput creates a dashboard from saved chart ids
type CreateInput struct {
	Name        string   `json:"name" validate:"required,max=200" example:"Fleet overview"`
	Description string   `json:"description,omitempty" validate:"max=2000" example:"Device health by region"`
	WidgetIDs   []string `json:"widget_ids" validate:"dive,uuid" example:"6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"`
}

// Dashboard is a saved dashboard
type Dashboard struct {
	ID          string    `json:"id" example:"0b8e2a43-5d1f-4c3a-b7a9-1f2e3d4c5b6a"`
	Name        string    `json:"name" example:"Fleet overview"`
	Description string    `json:"description" example:"Device health by region"`
	WidgetIDs   []string  `json:"widget_ids"`
	CreatedAt   time.Time `json:"created_at" example:"2025-03-04T05:06:07Z"`
}

// Widget is one executed chart on a dashboard
// a failed widget carries Error and empty data instead of failing the dashboard
type Widget struct {
	ChartID   string         `json:"chart_id" example:"6f1c1f4e-0a7b-4c1d-9a55-0e3f5d2b8c11"`
	Name      string         `json:"name,omitempty" example:"Devices by region"`
	ChartType string         `json:"chart_type,omitempty" example:"bar-chart"`
	Dataset   string         `json:"dataset,omitempty" example:"light_table"`
	Rows      int            `json:"rows" example:"12"`
	Truncated bool           `json:"truncated,omitempty"`
	Data      chartdata.Data `json:"data"`
	Error     string         `json:"error,omitempty" example:"chart not found"`
}

// RenderOutput is a dashboard with every widget executed
type RenderOutput struct {
	Dashboard Dashboard `json:"dashboard"`
	Widgets   []Widget  `json:"widgets"`
}

// StreamMessage is the websocket frame sent while rendering
type StreamMessage struct {
	Type        string  `json:"type" enums:"widget,done,error"`
	DashboardID string  `json:"dashboard_id,omitempty"`
	Widget      *Widget `json:"widget,omitempty"`
	Error       string  `json:"error,omitempty"`
}
