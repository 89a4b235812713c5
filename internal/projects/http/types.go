package http

import "time"

type createProjectReq struct {
	Title                 string    `json:"title"`
	Description           string    `json:"description"`
	Budget                float64   `json:"budget"`
	CategoryID            *string   `json:"category_id"`
	ApplicationsStartDate time.Time `json:"applications_start_date"`
	ApplicationsDeadline  time.Time `json:"applications_deadline"`
	WorkStartDate         time.Time `json:"work_start_date"`
	WorkDeadline          time.Time `json:"work_deadline"`
}

type setAcceptanceReq struct {
	Confirmed *bool `json:"confirmed"`
}
