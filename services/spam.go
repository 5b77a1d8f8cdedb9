package services

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/ColdByDefault/Portfolio-sub001/dto"
)

// Classification reasons written to the audit trail.
const (
	ReasonHoneypot        = "honeypot"
	ReasonTooFast         = "too_fast"
	ReasonMissingFields   = "missing_fields"
	ReasonInvalidEmail    = "invalid_email"
	ReasonDisposableEmail = "disposable_email"
	ReasonSpamContent     = "spam_content"
	ReasonBlockedEmail    = "blocked_email"
	ReasonFrequency       = "frequency"
)

type Classification struct {
	Accepted bool
	Reason   string
	Score    int
}

type SpamService struct {
	context.DefaultService

	filter *spamFilter
}

const SPAM_SVC = "spam_svc"

func (svc SpamService) Id() string {
	return SPAM_SVC
}

func (svc *SpamService) Configure(ctx *context.Context) error {
	svc.filter = newSpamFilter(systemClock{})
	return svc.DefaultService.Configure(ctx)
}

func (svc *SpamService) Start() error {
	return nil
}

// Classify runs the submission through the heuristic chain and logs the
// outcome. The request's text fields are sanitized in place before any
// content check, so downstream consumers only ever see cleaned values.
func (svc *SpamService) Classify(req *dto.ContactRequest, ip string) Classification {
	cls := svc.filter.classify(req)

	entry := log.WithFields(log.Fields{
		"ip":       ip,
		"email":    req.Email,
		"accepted": cls.Accepted,
		"score":    cls.Score,
	})
	if cls.Accepted {
		entry.Info("Contact submission accepted by spam filter")
	} else {
		entry.WithField("reason", cls.Reason).Warn("Contact submission rejected by spam filter")
	}

	return cls
}

// ==================== FILTER ====================

type spamFilter struct {
	clock          Clock
	minFillTime    time.Duration
	scoreThreshold int
}

func newSpamFilter(clock Clock) *spamFilter {
	return &spamFilter{
		clock:          clock,
		minFillTime:    3 * time.Second,
		scoreThreshold: 5,
	}
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	linkPattern  = regexp.MustCompile(`https?://`)
)

// Domains commonly used for throwaway inboxes.
var disposableDomains = map[string]struct{}{
	"mailinator.com":    {},
	"guerrillamail.com": {},
	"10minutemail.com":  {},
	"tempmail.com":      {},
	"temp-mail.org":     {},
	"throwawaymail.com": {},
	"trashmail.com":     {},
	"yopmail.com":       {},
	"sharklasers.com":   {},
	"getnada.com":       {},
	"dispostable.com":   {},
	"maildrop.cc":       {},
	"fakeinbox.com":     {},
}

var spamKeywords = map[string]int{
	"viagra":          5,
	"cialis":          5,
	"free money":      5,
	"make money fast": 5,
	"casino":          4,
	"lottery":         4,
	"seo services":    4,
	"backlinks":       4,
	"work from home":  3,
	"click here":      3,
	"buy now":         3,
	"winner":          3,
	"prize":           3,
	"loan offer":      3,
	"crypto":          2,
	"bitcoin":         2,
	"investment":      2,
	"limited time":    2,
}

// classify applies the checks in order; the first failure short-circuits.
func (f *spamFilter) classify(req *dto.ContactRequest) Classification {
	// 1. Honeypot: hidden field that humans never populate.
	if strings.TrimSpace(req.Honeypot) != "" {
		return Classification{Reason: ReasonHoneypot}
	}

	// 2. Minimum elapsed time between form render and submit. A missing
	// timestamp is tolerated (older clients); a too-recent or future one
	// is an automation signal.
	if req.Timestamp != 0 {
		elapsed := f.clock.Now().UnixMilli() - req.Timestamp
		if elapsed < f.minFillTime.Milliseconds() {
			return Classification{Reason: ReasonTooFast}
		}
	}

	// 3. Required fields after trim.
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		return Classification{Reason: ReasonMissingFields}
	}

	// 4. Sanitize before any further processing or storage.
	req.Name = sanitizeField(req.Name)
	req.Subject = sanitizeField(req.Subject)
	req.Message = sanitizeField(req.Message)

	// 5. Email syntax and deliverability heuristics.
	if !emailPattern.MatchString(req.Email) || strings.Contains(req.Email, "..") {
		return Classification{Reason: ReasonInvalidEmail}
	}
	domain := req.Email[strings.LastIndexByte(req.Email, '@')+1:]
	if _, ok := disposableDomains[domain]; ok {
		return Classification{Reason: ReasonDisposableEmail}
	}

	// 6. Content scoring across concatenated fields.
	score := f.score(req.Name + " " + req.Subject + " " + req.Message)
	if score >= f.scoreThreshold {
		return Classification{Reason: ReasonSpamContent, Score: score}
	}

	return Classification{Accepted: true, Score: score}
}

func (f *spamFilter) score(text string) int {
	lower := strings.ToLower(text)

	score := 0
	for keyword, weight := range spamKeywords {
		if strings.Contains(lower, keyword) {
			score += weight
		}
	}

	// More than two links in a contact message is a strong spam signal.
	if links := len(linkPattern.FindAllStringIndex(lower, -1)); links > 2 {
		score += (links - 2) * 2
	}

	return score
}

// sanitizeField strips tags and escapes HTML-significant characters.
func sanitizeField(value string) string {
	value = tagPattern.ReplaceAllString(value, "")
	value = strings.Map(func(r rune) rune {
		if r < 32 && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, value)
	return html.EscapeString(value)
}
