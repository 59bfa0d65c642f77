package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// A simple struct to capture the incoming ledger event data
type LedgerEvent struct {
	ClockEventID  int64     `json:"clockEventId"`
	WorkerID      string    `json:"workerId"`
	WorkedMinutes int       `json:"workedMinutes"`
	ClockOutTime  time.Time `json:"clockOutTime"`
}

func ledgerHandler(w http.ResponseWriter, r *http.Request) {
	var event LedgerEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	log.Printf("Received worked time for WorkerID: %s, Minutes: %d", event.WorkerID, event.WorkedMinutes)
	w.WriteHeader(http.StatusOK)
}

func main() {
	http.HandleFunc("/", ledgerHandler)
	log.Println("Payroll API mock server starting on port 8081...")
	log.Fatal(http.ListenAndServe(":8081", nil))
}
