package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"screenai/config"
	"screenai/models"
	"screenai/services"
	"screenai/utils"
)

// SaveResumeRequest receives the profile submitted after the UPI payment
// step: it persists the order, notifies the admin by email (payment proof
// attached when present), archives the proof, and generates a .docx draft
// for the manual resume-creation service.
//
// Payment itself is self-attested by the submitting client; nothing here
// verifies that money moved.
func SaveResumeRequest(db *sql.DB, email *services.EmailService, archive *services.S3Service, upi config.UPIConfig, draftDir string) gin.HandlerFunc {
	requests := models.NewResumeRequestModel(db)

	return func(c *gin.Context) {
		req := &models.ResumeRequest{
			Name:         c.PostForm("name"),
			Email:        c.PostForm("email"),
			Phone:        c.PostForm("phone"),
			SenderNumber: c.PostForm("senderNumber"),
			Role:         c.PostForm("role"),
			Skills:       c.PostForm("skills"),
			Projects:     c.PostForm("projects"),
			Achievements: c.PostForm("achievements"),
		}
		if req.Name == "" || req.Email == "" || req.Phone == "" || req.SenderNumber == "" || req.Role == "" {
			utils.DetailError(c, http.StatusBadRequest, "Missing required fields.")
			return
		}

		proof, proofName, proofType := readPaymentProof(c)
		req.ProofName = proofName

		if draft, err := services.GenerateResumeDraft(req, draftDir); err != nil {
			utils.LogError("Resume draft generation failed", err)
		} else {
			req.DraftPath = draft
		}

		if _, err := requests.Create(req); err != nil {
			utils.LogError("Failed to save resume request", err)
			utils.DetailError(c, http.StatusInternalServerError, "Error saving details.")
			return
		}

		if archive != nil && len(proof) > 0 {
			key := fmt.Sprintf("payment-proofs/%d-%s", time.Now().Unix(), req.ProofName)
			if _, err := archive.UploadBytes(key, proof, proofType); err != nil {
				utils.LogError("Payment proof archive failed", err, map[string]string{"key": key})
			}
		}

		html := services.PaymentNotificationHTML(upi.PayeeHandle, req.Name, req.Email, req.Phone,
			req.SenderNumber, req.Role, req.Skills, req.Projects, req.Achievements)
		if err := email.SendPaymentNotification(html, req.ProofName, proof); err != nil {
			utils.LogError("Payment notification email failed", err)
			utils.DetailError(c, http.StatusInternalServerError, "Error sending details.")
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "msg": "Details received successfully, proof attached."})
	}
}

// readPaymentProof pulls the optional proof upload off the form. The
// archive content type comes from the multipart header, falling back to
// application/octet-stream when the part carries none.
func readPaymentProof(c *gin.Context) (data []byte, name, contentType string) {
	contentType = "application/octet-stream"
	fh, err := c.FormFile("paymentProof")
	if err != nil || fh == nil {
		return nil, "", contentType
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", contentType
	}
	defer f.Close()
	data, _ = io.ReadAll(f)
	name = fh.Filename
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		contentType = ct
	}
	return data, name, contentType
}
