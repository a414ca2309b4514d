package service

import (
	"strings"

	"medbridge-api/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// TriageResult is a department suggestion for a symptom description.
type TriageResult struct {
	Department entity.Department
	Reason     string
	Confidence decimal.Decimal
}

// Triager suggests a department from free-text symptoms. Implementations are
// interchangeable; the keyword matcher is a stand-in for a real model.
type Triager interface {
	Suggest(symptoms string) TriageResult
}

type triageRule struct {
	keywords []string
	result   TriageResult
}

type keywordTriager struct {
	rules    []triageRule
	fallback TriageResult
}

// NewKeywordTriager matches lower-cased symptoms against keyword groups in a
// fixed order. The first group with any substring hit wins.
func NewKeywordTriager() Triager {
	return &keywordTriager{
		rules: []triageRule{
			{
				keywords: []string{"chest pain", "heart", "palpitation", "cardiac"},
				result: TriageResult{
					Department: entity.DepartmentCardiology,
					Reason:     "You describe chest or heart related symptoms. A cardiologist should evaluate them.",
					Confidence: decimal.RequireFromString("0.85"),
				},
			},
			{
				keywords: []string{"headache", "migraine", "dizzy", "seizure", "numbness"},
				result: TriageResult{
					Department: entity.DepartmentNeurology,
					Reason:     "Your symptoms point to the nervous system. A neurologist can diagnose and treat them.",
					Confidence: decimal.RequireFromString("0.80"),
				},
			},
			{
				keywords: []string{"joint pain", "back pain", "fracture", "bone", "arthritis"},
				result: TriageResult{
					Department: entity.DepartmentOrthopedics,
					Reason:     "Your symptoms are musculoskeletal. An orthopedic specialist is the best first contact.",
					Confidence: decimal.RequireFromString("0.82"),
				},
			},
			{
				keywords: []string{"stomach", "abdominal", "nausea", "digestive", "bowel"},
				result: TriageResult{
					Department: entity.DepartmentGastroenterology,
					Reason:     "Your symptoms are digestive. A gastroenterologist consultation is recommended.",
					Confidence: decimal.RequireFromString("0.78"),
				},
			},
			{
				keywords: []string{"skin", "rash", "acne", "itching", "dermatology"},
				result: TriageResult{
					Department: entity.DepartmentDermatology,
					Reason:     "Your symptoms concern the skin. A dermatologist can recommend treatment.",
					Confidence: decimal.RequireFromString("0.83"),
				},
			},
			{
				keywords: []string{"eye", "vision", "sight", "blind"},
				result: TriageResult{
					Department: entity.DepartmentOphthalmology,
					Reason:     "Your symptoms concern your vision. An ophthalmologist should examine them.",
					Confidence: decimal.RequireFromString("0.86"),
				},
			},
			{
				keywords: []string{"ear", "nose", "throat", "hearing", "sinus"},
				result: TriageResult{
					Department: entity.DepartmentENT,
					Reason:     "Your symptoms involve the ear, nose or throat. An ENT specialist is recommended.",
					Confidence: decimal.RequireFromString("0.81"),
				},
			},
		},
		fallback: TriageResult{
			Department: entity.DepartmentGeneral,
			Reason:     "Start with a general medicine consultation for an initial evaluation and a specialist referral if needed.",
			Confidence: decimal.RequireFromString("0.70"),
		},
	}
}

func (t *keywordTriager) Suggest(symptoms string) TriageResult {
	lower := strings.ToLower(symptoms)
	for _, rule := range t.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.result
			}
		}
	}
	return t.fallback
}
