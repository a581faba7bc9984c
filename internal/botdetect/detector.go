package botdetect

import (
	"regexp"
	"strings"
	"time"

	"hypewatch/internal/domain/collection"
)

// Platform is the closed set of source platforms with authenticity rules.
// Dispatch is by enum, not string comparison, so a new platform fails to
// compile until a rule set exists for it.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformForum
	PlatformVideo
)

// String returns the platform name for logs and metrics
func (p Platform) String() string {
	switch p {
	case PlatformForum:
		return "forum"
	case PlatformVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Heuristic weights. The score is additive and clamped to [0,100]; each
// triggered rule appends an explanatory flag.
const (
	weightSuspiciousUsername = 20
	weightNewAccount         = 30
	weightLowKarmaOldAccount = 25
	weightLowEngagement      = 10
	weightFollowFarming      = 30
	weightInfluencerFarm     = 20
	weightLowEngagementRate  = 25
	weightRoundMetrics       = 15
)

// Rule thresholds
const (
	minAccountAge        = 7 * 24 * time.Hour
	oldAccountAge        = 30 * 24 * time.Hour
	minKarma             = 10
	lowEngagementFloor   = 5
	minFollowerRatio     = 0.1
	maxFollowerRatio     = 10.0
	influencerFollowers  = 10_000
	minEngagementRate    = 0.01
	roundMetricThreshold = 3
)

// Explanatory flags attached to verdicts
const (
	FlagSystemAccount      = "system_account"
	FlagSuspiciousUsername = "suspicious_username"
	FlagNewAccount         = "new_account"
	FlagLowKarmaOldAccount = "low_karma_old_account"
	FlagLowEngagement      = "low_engagement"
	FlagLowFollowerRatio   = "low_follower_ratio"
	FlagInfluencerFarm     = "influencer_farm_pattern"
	FlagLowEngagementRate  = "low_engagement_rate"
	FlagSuspiciousMetrics  = "suspicious_metrics"
)

// Username pattern families bots tend to use. Each matched family scores
// independently: a handle hitting several families is stronger evidence than
// one hitting a single family.
var suspiciousUsernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[a-z]+\d{4,}$`),                    // lowercase + trailing digit run
	regexp.MustCompile(`^\w{1,3}\d{6,}$`),                   // very short prefix + long digit run
	regexp.MustCompile(`^(crypto|moon|rocket|pump)\w*\d+$`), // promo word + numbers
	regexp.MustCompile(`^bot\w+`),                           // starts with "bot"
	regexp.MustCompile(`^\d+\w+\d+$`),                       // digits-letters-digits
}

// System accounts that are automated by the platform itself, not bots in the
// inauthenticity sense.
var systemAccounts = map[string]bool{
	"[deleted]":    true,
	"automoderator": true,
}

// Verdict is the per-account authenticity result. IsBot always equals
// Score >= the threshold the detector was built with.
type Verdict struct {
	Score float64 // 0 to 100
	Flags []string
	IsBot bool
}

// Detector scores accounts for bot-likelihood with per-platform rule sets.
// Thresholds are injected at construction; the zero map falls back to the
// default threshold for every platform.
type Detector struct {
	thresholds map[Platform]float64
}

// DefaultThreshold is the bot score at and above which an item is rejected
const DefaultThreshold = 50.0

// NewDetector creates a detector with per-platform thresholds. Platforms
// missing from the map use DefaultThreshold.
func NewDetector(thresholds map[Platform]float64) *Detector {
	copied := make(map[Platform]float64, len(thresholds))
	for p, t := range thresholds {
		copied[p] = t
	}
	return &Detector{thresholds: copied}
}

// Threshold returns the bot threshold for a platform
func (d *Detector) Threshold(platform Platform) float64 {
	if t, ok := d.thresholds[platform]; ok {
		return t
	}
	return DefaultThreshold
}

// Analyze scores one item's account for the given platform. It is pure: the
// item is only read and a fresh verdict is returned. An unknown platform
// yields an empty verdict, which callers treat as accept (fail-open so a
// scoring bug cannot silently drop all data).
func (d *Detector) Analyze(platform Platform, item collection.SourceItem) Verdict {
	switch platform {
	case PlatformForum:
		return d.analyzeForum(item)
	case PlatformVideo:
		return d.analyzeVideo(item)
	default:
		return Verdict{}
	}
}

func (d *Detector) analyzeForum(item collection.SourceItem) Verdict {
	if isSystemAccount(item.AuthorHandle) {
		return Verdict{Flags: []string{FlagSystemAccount}}
	}

	var score float64
	var flags []string

	if n := countSuspiciousPatterns(item.AuthorHandle); n > 0 {
		score += float64(n * weightSuspiciousUsername)
		flags = append(flags, FlagSuspiciousUsername)
	}

	age := accountAge(item)
	if age > 0 && age < minAccountAge {
		score += weightNewAccount
		flags = append(flags, FlagNewAccount)
	}

	karma := item.EngagementCount(collection.EngagementKarma)
	if karma < minKarma && age > oldAccountAge {
		score += weightLowKarmaOldAccount
		flags = append(flags, FlagLowKarmaOldAccount)
	}

	if item.EngagementCount(collection.EngagementScore) < lowEngagementFloor {
		score += weightLowEngagement
		flags = append(flags, FlagLowEngagement)
	}

	if hasRoundMetrics(item,
		collection.EngagementScore,
		collection.EngagementComments,
		collection.EngagementKarma) {
		score += weightRoundMetrics
		flags = append(flags, FlagSuspiciousMetrics)
	}

	return d.verdict(PlatformForum, score, flags)
}

func (d *Detector) analyzeVideo(item collection.SourceItem) Verdict {
	if isSystemAccount(item.AuthorHandle) {
		return Verdict{Flags: []string{FlagSystemAccount}}
	}

	var score float64
	var flags []string

	if n := countSuspiciousPatterns(item.AuthorHandle); n > 0 {
		score += float64(n * weightSuspiciousUsername)
		flags = append(flags, FlagSuspiciousUsername)
	}

	age := accountAge(item)
	if age > 0 && age < minAccountAge {
		score += weightNewAccount
		flags = append(flags, FlagNewAccount)
	}

	followers := item.EngagementCount(collection.EngagementFollowers)
	following := item.EngagementCount(collection.EngagementFollowing)
	if following > 0 {
		ratio := float64(followers) / float64(following)

		// Follow-farming: following many, followed by few
		if ratio < minFollowerRatio {
			score += weightFollowFarming
			flags = append(flags, FlagLowFollowerRatio)
		}

		// Influencer-farm: many followers, following few
		if ratio > maxFollowerRatio && followers > influencerFollowers {
			score += weightInfluencerFarm
			flags = append(flags, FlagInfluencerFarm)
		}
	}

	views := item.EngagementCount(collection.EngagementViews)
	likes := item.EngagementCount(collection.EngagementLikes)
	if views > 0 {
		if rate := float64(likes) / float64(views); rate < minEngagementRate {
			score += weightLowEngagementRate
			flags = append(flags, FlagLowEngagementRate)
		}
	}

	if hasRoundMetrics(item,
		collection.EngagementViews,
		collection.EngagementLikes,
		collection.EngagementFollowers,
		collection.EngagementFollowing) {
		score += weightRoundMetrics
		flags = append(flags, FlagSuspiciousMetrics)
	}

	return d.verdict(PlatformVideo, score, flags)
}

func (d *Detector) verdict(platform Platform, score float64, flags []string) Verdict {
	if score > 100 {
		score = 100
	}
	return Verdict{
		Score: score,
		Flags: flags,
		IsBot: score >= d.Threshold(platform),
	}
}

func isSystemAccount(handle string) bool {
	return systemAccounts[strings.ToLower(handle)]
}

func countSuspiciousPatterns(handle string) int {
	lower := strings.ToLower(handle)
	count := 0
	for _, pattern := range suspiciousUsernamePatterns {
		if pattern.MatchString(lower) {
			count++
		}
	}
	return count
}

func accountAge(item collection.SourceItem) time.Duration {
	if item.AccountCreatedAt.IsZero() {
		return 0
	}
	return time.Since(item.AccountCreatedAt)
}

// hasRoundMetrics reports whether enough positive metrics are perfectly
// divisible by 1000, a pattern of fabricated engagement numbers.
func hasRoundMetrics(item collection.SourceItem, keys ...string) bool {
	round := 0
	for _, key := range keys {
		if v := item.EngagementCount(key); v > 0 && v%1000 == 0 {
			round++
		}
	}
	return round >= roundMetricThreshold
}
