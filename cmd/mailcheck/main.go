// Command mailcheck sends a sample vote receipt through the configured SMTP
// server, for checking mail settings without casting a vote.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"

	"votify-backend-go/internal/config"
	"votify-backend-go/internal/models"
	"votify-backend-go/internal/notify"
	"votify-backend-go/pkg/mailer"
)

func main() {
	recipient := flag.String("to", "", "recipient email address")
	flag.Parse()
	if *recipient == "" {
		log.Fatal("usage: mailcheck -to someone@example.com")
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Failed to load .env file: %v", err)
	}
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	m, err := mailer.New(mailer.Config{
		Host:     appConfig.SMTPHost,
		Port:     appConfig.SMTPPort,
		Username: appConfig.SMTPUsername,
		Password: appConfig.SMTPPassword,
		Sender:   appConfig.MailSender,
	})
	if err != nil {
		log.Fatalf("Mailer misconfigured: %v", err)
	}

	body := notify.RenderReceipt(models.VoteCastEvent{
		UserID:              "mailcheck",
		VoterEmail:          *recipient,
		MaleCandidateID:     "sample-male",
		MaleCandidateName:   "Contoh Kandidat Pria",
		FemaleCandidateID:   "sample-female",
		FemaleCandidateName: "Contoh Kandidat Wanita",
		VotedAt:             time.Now(),
	}, appConfig.Location())

	fmt.Printf("Sending sample receipt to %s via %s:%s...\n", *recipient, appConfig.SMTPHost, appConfig.SMTPPort)
	if err := m.SendEmail(*recipient, notify.ReceiptSubject, body); err != nil {
		log.Fatalf("Error sending email: %v", err)
	}
	fmt.Println("Sample receipt sent.")
}
