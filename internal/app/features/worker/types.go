package worker

// completeRequest is the JSON payload for POST /worker/tasks/{id}/complete.
type completeRequest struct {
	WorkerNotes string `json:"worker_notes" validate:"max=1000" label:"Worker notes"`
}

// noteRequest is the JSON payload for POST /worker/tasks/{id}/notes.
type noteRequest struct {
	Notes string `json:"notes" validate:"required,max=1000" label:"Notes"`
}

// statusRequest is the JSON payload for PUT /worker/status.
type statusRequest struct {
	Status string `json:"status" validate:"required" label:"Status"`
}
