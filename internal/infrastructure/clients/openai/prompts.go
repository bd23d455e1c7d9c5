package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/care4u/backend/internal/domain/entities"
)

const symptomSystemPrompt = `You are an AI assistant for Care4U. Your role is to help users find suitable medical care based on their symptoms, with a calm, reassuring, and clear tone.
You are given a list of symptoms, a list of nearby hospitals with their capabilities, and a list of top doctors.

Follow these steps precisely:

1. Analyze symptoms and urgency.
   - Analyze the user's symptoms to identify potential medical conditions.
   - If the symptoms are vague, very minor, or could be either a simple issue or a sign of something serious, gather more information:
     set "urgency" to "clarification-needed", give a brief "analysis" explaining that more information would be helpful,
     and put 2-3 specific questions in "clarifyingQuestions". Do NOT provide "suggestedSteps", "recommendedHospitals" or "recommendedDoctors".
   - Otherwise set "urgency" to one of "low", "medium", "high", "critical" and continue.

2. Provide recommendations when not asking questions.
   - "suggestedSteps": a short list of actionable next steps. If urgency is "high" or "critical" the very first step MUST be
     "` + entities.EmergencyCallStep + `"
   - "recommendedHospitals": up to 3 hospitals from the list as {"hospitalId", "reason"}. Prioritize relevant specialties, then wait times. Only use ids from the list.
   - "recommendedDoctors": if a clear specialty is identified, 1-2 doctors from the list as {"name", "specialty", "hospitalName", "reason"}.

3. Return ONLY a JSON object with the keys "analysis", "urgency", "suggestedSteps", "recommendedHospitals", "recommendedDoctors", "clarifyingQuestions". No other text.`

const voiceSystemPrompt = `You are helping caregivers find the nearest hospitals equipped to handle specific medical conditions.
Your response will be spoken, so it must be calm, conversational, and easy to understand.

Structure the response as follows:
1. Start with a calm, brief analysis of the condition.
2. If the condition sounds serious (like a stroke or heart attack), first advise to "consider calling your local emergency number immediately", then suggest other steps such as not driving oneself.
3. Recommend 1-2 of the most suitable hospitals from the list and explain why.
4. Optionally mention relevant specialists from the list.
5. Always end by reminding the user that "all availability and wait times are estimates."

Do not state you are an AI assistant. Keep the entire response as a single spoken paragraph.
Return ONLY a JSON object of the form {"hospitalRecommendations": "<paragraph>"}.`

const summarySystemPrompt = `Summarize the key capabilities of a hospital for emergency care in two or three sentences, focusing on available resources and specialties.
Return ONLY a JSON object of the form {"summary": "<text>"}.`

// hospitalPromptView is the reduced hospital record sent to the model.
type hospitalPromptView struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Specialties    []string `json:"specialties"`
	WaitTime       int      `json:"waitTime"`
	Distance       float64  `json:"distance"`
	IsTraumaCenter bool     `json:"isTraumaCenter"`
	IsStrokeCenter bool     `json:"isStrokeCenter"`
	ICUBeds        int      `json:"icuBeds"`
	OperatingRooms int      `json:"operatingRooms"`
}

type doctorPromptView struct {
	Name         string  `json:"name"`
	Specialty    string  `json:"specialty"`
	HospitalName string  `json:"hospitalName"`
	SuccessRate  float64 `json:"successRate,omitempty"`
	Experience   int     `json:"experience,omitempty"`
}

func hospitalViews(hospitals []*entities.Hospital) []hospitalPromptView {
	views := make([]hospitalPromptView, 0, len(hospitals))
	for _, h := range hospitals {
		views = append(views, hospitalPromptView{
			ID:             h.ID,
			Name:           h.Name,
			Specialties:    h.Capabilities.Specialties,
			WaitTime:       h.EstimatedWaitTime,
			Distance:       h.Distance,
			IsTraumaCenter: h.HasSpecialty(entities.SpecialtyTrauma),
			IsStrokeCenter: h.HasSpecialty(entities.SpecialtyStroke),
			ICUBeds:        h.Capabilities.ICUBedsAvailable,
			OperatingRooms: h.Capabilities.OperatingRoomsAvailable,
		})
	}
	return views
}

func doctorViews(doctors []*entities.Doctor, hospitals []*entities.Hospital, withStats bool) []doctorPromptView {
	names := make(map[string]string, len(hospitals))
	for _, h := range hospitals {
		names[h.ID] = h.Name
	}

	views := make([]doctorPromptView, 0, len(doctors))
	for _, d := range doctors {
		v := doctorPromptView{
			Name:         d.Name,
			Specialty:    d.Specialty,
			HospitalName: names[d.HospitalID],
		}
		if withStats {
			v.SuccessRate = d.SuccessRate
			v.Experience = d.ExperienceYears
		}
		views = append(views, v)
	}
	return views
}

func buildSymptomUserPrompt(symptoms string, hospitals []*entities.Hospital, doctors []*entities.Doctor) (string, error) {
	hospitalJSON, err := json.MarshalIndent(hospitalViews(hospitals), "", "  ")
	if err != nil {
		return "", err
	}
	doctorJSON, err := json.MarshalIndent(doctorViews(doctors, hospitals, true), "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("User Symptoms: %q\n\nAvailable Hospitals:\n%s\n\nAvailable Doctors:\n%s\n",
		symptoms, hospitalJSON, doctorJSON), nil
}

func buildVoiceUserPrompt(condition, patientContext string, hospitals []*entities.Hospital, doctors []*entities.Doctor) (string, error) {
	hospitalJSON, err := json.MarshalIndent(hospitalViews(hospitals), "", "  ")
	if err != nil {
		return "", err
	}
	doctorJSON, err := json.MarshalIndent(doctorViews(doctors, hospitals, false), "", "  ")
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User's spoken condition: %q\n\n", condition)
	if patientContext != "" {
		fmt.Fprintf(&b, "Known patient context (take into account): %s\n\n", patientContext)
	}
	fmt.Fprintf(&b, "Available Hospitals:\n%s\n\nAvailable Specialists:\n%s\n", hospitalJSON, doctorJSON)
	return b.String(), nil
}

func buildSummaryUserPrompt(h *entities.Hospital) string {
	pad := "No"
	if h.Capabilities.HasHelicopterPad {
		pad = "Yes"
	}
	return fmt.Sprintf(
		"Hospital: %s\nAvailable Beds: %d\nICU Beds: %d\nSpecialties: %s\nHelicopter Landing Pad: %s\n",
		h.Name, h.Capabilities.BedsAvailable, h.Capabilities.ICUBedsAvailable,
		strings.Join(h.Capabilities.Specialties, ", "), pad,
	)
}

// stripCodeFence removes a Markdown code block wrapper if the model added one.
func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
