package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"baliance.com/gooxml/document"

	"screenai/models"
)

// GenerateResumeDraft writes a .docx draft for a paid resume request and
// returns the file path. The draft is the starting point for the manual
// resume-creation service, not the deliverable itself.
func GenerateResumeDraft(req *models.ResumeRequest, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create draft dir: %v", err)
	}

	doc := document.New()

	doc.AddParagraph().AddRun().AddText(req.Name)
	contact := strings.TrimSpace(strings.Join(nonEmpty(req.Email, req.Phone), " | "))
	if contact != "" {
		doc.AddParagraph().AddRun().AddText(contact)
	}
	if req.Role != "" {
		doc.AddParagraph().AddRun().AddText("Desired Role: " + req.Role)
	}

	addSection(doc, "Skills", req.Skills)
	addSection(doc, "Projects", req.Projects)
	addSection(doc, "Achievements", req.Achievements)

	name := fmt.Sprintf("resume-draft-%s-%d.docx", sanitizeName(req.Name), time.Now().Unix())
	path := filepath.Join(dir, name)
	if err := doc.SaveToFile(path); err != nil {
		return "", fmt.Errorf("failed to save draft: %v", err)
	}
	return path, nil
}

func addSection(doc *document.Document, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	doc.AddParagraph().AddRun().AddText(title)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.AddParagraph().AddRun().AddText("• " + line)
	}
}

func nonEmpty(vals ...string) []string {
	out := []string{}
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_':
			b.WriteRune('-')
		}
	}
	if b.Len() == 0 {
		return "candidate"
	}
	return b.String()
}
