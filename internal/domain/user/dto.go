package user

// WorkerResponse is the salary-calculator view of a worker.
type WorkerResponse struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	HourlyRate          *string `json:"hourly_rate"`
	EffectiveHourlyRate string  `json:"effective_hourly_rate"`
	SupervisorID        *string `json:"supervisor_id,omitempty"`
	Status              string  `json:"status"`
}
