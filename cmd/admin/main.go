package main

import (
	"fmt"
	"log"
	"os"

	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/notifyhub"
	"complainthub/backend/internal/storage"
	"complainthub/backend/internal/workflow"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	storageSvc := storage.NewStorageService(db)
	// No redis bridge for the CLI; notifications are still persisted and
	// picked up by recipients on their next poll.
	engine := workflow.NewEngine(storageSvc, notifyhub.NewHub(nil))
	svc := complaint.NewService(storageSvc, engine, nil)

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "escalate":
		id := requireIDArg("escalate")
		if err := forceStatus(storageSvc, engine, id, models.StatusInProgress, "Escalated manually by operator"); err != nil {
			log.Fatalf("Error escalating complaint: %v", err)
		}
		fmt.Printf("Complaint %s moved to IN_PROGRESS.\n", id)
	case "resolve":
		id := requireIDArg("resolve")
		if err := forceStatus(storageSvc, engine, id, models.StatusResolved, "Resolved manually by operator"); err != nil {
			log.Fatalf("Error resolving complaint: %v", err)
		}
		fmt.Printf("Complaint %s resolved.\n", id)
	case "recompute":
		id := requireIDArg("recompute")
		c, err := svc.RecomputeRisk(id)
		if err != nil {
			log.Fatalf("Error recomputing risk: %v", err)
		}
		fmt.Printf("Complaint %s rescored: score=%d level=%s priority=%s\n", id, c.RiskScore, c.RiskLevel, c.Priority)
	case "sweep":
		complaints, err := storageSvc.ListOpenComplaints()
		if err != nil {
			log.Fatalf("Error listing open complaints: %v", err)
		}
		n := engine.CheckAndEscalateOverdue(complaints)
		fmt.Printf("Sweep escalated %d overdue complaint(s).\n", n)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func requireIDArg(command string) string {
	if len(os.Args) != 3 {
		fmt.Printf("Usage: admin %s <complaint_id>\n", command)
		os.Exit(1)
	}
	return os.Args[2]
}

// forceStatus applies a transition as the system actor, keeping the audit
// trail and submitter notification identical to an API-driven change.
func forceStatus(s storage.Storage, engine *workflow.Engine, id string, status models.Status, comment string) error {
	c, err := s.GetComplaintByID(id)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("complaint %s not found", id)
	}
	if c.Status == status {
		return nil
	}

	old := c.Status
	c.Status = status
	if err := s.UpdateComplaint(c); err != nil {
		return err
	}
	return engine.RecordTransition(c, old, status, "", models.RoleSystem, comment)
}
