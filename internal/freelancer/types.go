package freelancer

import "encoding/json"

// envelope is the marketplace's standard response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// RawProject is the project-detail payload as the marketplace returns it.
// Read-only once fetched; shaping happens in Shape without mutating it.
type RawProject struct {
	ID                 int64     `json:"id"`
	OwnerID            int64     `json:"owner_id"`
	SeoURL             string    `json:"seo_url"`
	Title              string    `json:"title"`
	PreviewDescription string    `json:"preview_description"`
	Description        string    `json:"description"`
	Budget             *Budget   `json:"budget"`
	Currency           *Currency `json:"currency"`
	BidStats           *BidStats `json:"bid_stats"`
	BidPeriod          *int      `json:"bidperiod"`
}

type Budget struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type Currency struct {
	Code    string `json:"code"`
	Country string `json:"country"`
}

type BidStats struct {
	BidCount int      `json:"bid_count"`
	BidAvg   *float64 `json:"bid_avg"`
}

type searchResult struct {
	Projects []RawProject `json:"projects"`
}

type usersResult struct {
	Users map[string]UserInfo `json:"users"`
}

// UserInfo is one entry of the bulk user lookup, keyed by owner ID as a
// string. Only the fields the client summary needs are decoded.
type UserInfo struct {
	Username         string    `json:"username"`
	DisplayName      string    `json:"display_name"`
	PublicName       *string   `json:"public_name"`
	Location         *Location `json:"location"`
	RegistrationDate *int64    `json:"registration_date"`
	AvatarLargeCDN   *string   `json:"avatar_large_cdn"`
	AvatarLarge      *string   `json:"avatar_large"`
	AvatarCDN        *string   `json:"avatar_cdn"`
	Company          *string   `json:"company"`
	Role             *string   `json:"role"`
	ChosenRole       *string   `json:"chosen_role"`
	LimitedAccount   *bool     `json:"limited_account"`
	MembershipPkg    any       `json:"membership_package"`

	EmployerReputation *Reputation `json:"employer_reputation"`
	Status             *UserStatus `json:"status"`
}

type Location struct {
	Country *struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"country"`
	City *string `json:"city"`
}

type Reputation struct {
	EntireHistory *ReputationHistory `json:"entire_history"`
}

type ReputationHistory struct {
	Overall        *float64         `json:"overall"`
	OnBudget       *float64         `json:"on_budget"`
	OnTime         *float64         `json:"on_time"`
	Positive       *float64         `json:"positive"`
	All            *float64         `json:"all"`
	Reviews        *int             `json:"reviews"`
	Complete       *int             `json:"complete"`
	Incomplete     *int             `json:"incomplete"`
	CompletionRate *float64         `json:"completion_rate"`
	RehireRate     *float64         `json:"rehire_rate"`
	Categories     *CategoryRatings `json:"category_ratings"`
}

type CategoryRatings struct {
	ClaritySpec     *float64 `json:"clarity_spec"`
	Communication   *float64 `json:"communication"`
	PaymentProm     *float64 `json:"payment_prom"`
	Professionalism *float64 `json:"professionalism"`
	WorkForAgain    *float64 `json:"work_for_again"`
}

type UserStatus struct {
	PaymentVerified  *bool `json:"payment_verified"`
	EmailVerified    *bool `json:"email_verified"`
	DepositMade      *bool `json:"deposit_made"`
	IdentityVerified *bool `json:"identity_verified"`
	PhoneVerified    *bool `json:"phone_verified"`
}

// FormattedProject is the caller-facing record the UI consumes.
type FormattedProject struct {
	ID                 int64         `json:"id"`
	SeoURL             string        `json:"seo_url"`
	Title              string        `json:"title"`
	PreviewDescription string        `json:"preview_description"`
	Description        string        `json:"description"`
	Budget             BudgetOut     `json:"budget"`
	Currency           CurrencyOut   `json:"currency"`
	BidStats           BidStatsOut   `json:"bid_stats"`
	Country            CountryOut    `json:"country"`
	BidPeriod          *int          `json:"bidperiod"`
	Client             ClientSummary `json:"client"`
}

type BudgetOut struct {
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

type CurrencyOut struct {
	Code string `json:"code"`
}

type BidStatsOut struct {
	BidCount int     `json:"bid_count"`
	BidAvg   float64 `json:"bid_avg"`
}

// CountryOut carries the currency's country field; the original UI reads it
// from here, so the quirk stays.
type CountryOut struct {
	Country string `json:"country"`
}

type ClientSummary struct {
	ID               *int64     `json:"id"`
	Username         string     `json:"username"`
	DisplayName      string     `json:"display_name"`
	PublicName       *string    `json:"public_name"`
	Country          string     `json:"country"`
	CountryCode      *string    `json:"country_code"`
	City             *string    `json:"city"`
	RegistrationDate *int64     `json:"registration_date"`
	ProfileURL       *string    `json:"profile_url"`
	Avatar           *string    `json:"avatar"`
	Company          *string    `json:"company"`
	Role             *string    `json:"role"`
	ChosenRole       *string    `json:"chosen_role"`
	Rating           RatingsOut `json:"rating"`
	PaymentVerified  *bool      `json:"payment_verified"`
	EmailVerified    *bool      `json:"email_verified"`
	DepositMade      *bool      `json:"deposit_made"`
	IdentityVerified *bool      `json:"identity_verified"`
	PhoneVerified    *bool      `json:"phone_verified"`
	LimitedAccount   *bool      `json:"limited_account"`
	MembershipPkg    any        `json:"membership_package"`
}

type RatingsOut struct {
	Overall         *float64           `json:"overall"`
	OnBudget        *float64           `json:"on_budget"`
	OnTime          *float64           `json:"on_time"`
	Positive        *float64           `json:"positive"`
	All             *float64           `json:"all"`
	Reviews         *int               `json:"reviews"`
	Complete        *int               `json:"complete"`
	Incomplete      *int               `json:"incomplete"`
	CompletionRate  *float64           `json:"completion_rate"`
	RehireRate      *float64           `json:"rehire_rate"`
	CategoryRatings CategoryRatingsOut `json:"category_ratings"`
}

type CategoryRatingsOut struct {
	ClaritySpec     *float64 `json:"clarity_spec"`
	Communication   *float64 `json:"communication"`
	PaymentProm     *float64 `json:"payment_prom"`
	Professionalism *float64 `json:"professionalism"`
	WorkForAgain    *float64 `json:"work_for_again"`
}
