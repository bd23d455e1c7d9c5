package entities

// Urgency is the triage level returned by the symptom analyzer
type Urgency string

const (
	UrgencyLow                 Urgency = "low"
	UrgencyMedium              Urgency = "medium"
	UrgencyHigh                Urgency = "high"
	UrgencyCritical            Urgency = "critical"
	UrgencyClarificationNeeded Urgency = "clarification-needed"
)

// Urgencies lists every label the analyzer may return.
var Urgencies = []Urgency{
	UrgencyLow,
	UrgencyMedium,
	UrgencyHigh,
	UrgencyCritical,
	UrgencyClarificationNeeded,
}

// SeverityBand is the display tier derived from an urgency
type SeverityBand string

const (
	SeverityBandInformational SeverityBand = "informational"
	SeverityBandUrgent        SeverityBand = "urgent"
	SeverityBandCritical      SeverityBand = "critical"
	SeverityBandClarification SeverityBand = "clarification"
)

const (
	MaxRecommendedHospitals = 3
	MaxRecommendedDoctors   = 2
)

// EmergencyCallStep must lead the suggested steps for high and critical urgency.
const EmergencyCallStep = "Call your local emergency number (e.g., 911) immediately."

// ClarificationCaveat is shown alongside clarifying questions.
const ClarificationCaveat = "More detail is needed before hospitals or doctors can be recommended. Please answer the questions below."

// HospitalRecommendation is one hospital picked by the analyzer
type HospitalRecommendation struct {
	HospitalID string `json:"hospitalId"`
	Reason     string `json:"reason"`
}

// DoctorRecommendation is one doctor picked by the analyzer
type DoctorRecommendation struct {
	Name         string `json:"name"`
	Specialty    string `json:"specialty"`
	HospitalName string `json:"hospitalName"`
	Reason       string `json:"reason"`
}

// SymptomAnalysis is the analyzer response on the symptom path
type SymptomAnalysis struct {
	Analysis             string                   `json:"analysis"`
	Urgency              Urgency                  `json:"urgency"`
	SuggestedSteps       []string                 `json:"suggestedSteps,omitempty"`
	RecommendedHospitals []HospitalRecommendation `json:"recommendedHospitals,omitempty"`
	RecommendedDoctors   []DoctorRecommendation   `json:"recommendedDoctors,omitempty"`
	ClarifyingQuestions  []string                 `json:"clarifyingQuestions,omitempty"`
}

// VoiceSearchResult is the analyzer response on the voice path
type VoiceSearchResult struct {
	HospitalRecommendations string `json:"hospitalRecommendations"`
}

// CapabilitySummary is a short natural-language description of a hospital's capacity
type CapabilitySummary struct {
	HospitalID string `json:"hospital_id"`
	Summary    string `json:"summary"`
}

// TriageResult is the composed response of one symptom assessment
type TriageResult struct {
	Analysis             string                 `json:"analysis"`
	Urgency              Urgency                `json:"urgency"`
	SeverityBand         SeverityBand           `json:"severity_band"`
	Caveat               string                 `json:"caveat,omitempty"`
	ClarifyingQuestions  []string               `json:"clarifying_questions,omitempty"`
	SuggestedSteps       []string               `json:"suggested_steps,omitempty"`
	RecommendedHospitals []RankedHospital       `json:"recommended_hospitals,omitempty"`
	RankedHospitals      []RankedHospital       `json:"ranked_hospitals,omitempty"`
	RecommendedDoctors   []DoctorRecommendation `json:"recommended_doctors,omitempty"`
}
