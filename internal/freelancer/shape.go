package freelancer

import (
	"math"
	"strconv"
	"strings"
)

// Shape maps raw marketplace projects into the caller-facing schema. Pure:
// no I/O, no mutation of the inputs, output order matches input order.
func Shape(projects []RawProject, clients map[string]UserInfo) []FormattedProject {
	out := make([]FormattedProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, shapeOne(p, clients))
	}
	return out
}

func shapeOne(p RawProject, clients map[string]UserInfo) FormattedProject {
	fp := FormattedProject{
		ID:                 p.ID,
		SeoURL:             p.SeoURL,
		Title:              strings.TrimSpace(p.Title),
		PreviewDescription: strings.TrimSpace(p.PreviewDescription),
		Description:        strings.TrimSpace(p.Description),
		Currency:           CurrencyOut{Code: "NA"},
		Country:            CountryOut{Country: "NA"},
		BidPeriod:          p.BidPeriod,
	}
	if p.Budget != nil {
		fp.Budget = BudgetOut{Minimum: p.Budget.Minimum, Maximum: p.Budget.Maximum}
	}
	if p.Currency != nil {
		if p.Currency.Code != "" {
			fp.Currency.Code = p.Currency.Code
		}
		if p.Currency.Country != "" {
			fp.Country.Country = p.Currency.Country
		}
	}
	if p.BidStats != nil {
		fp.BidStats.BidCount = p.BidStats.BidCount
		if p.BidStats.BidAvg != nil {
			fp.BidStats.BidAvg = Round2(*p.BidStats.BidAvg)
		}
	}

	fp.Client = shapeClient(p.OwnerID, clients)
	return fp
}

// Round2 rounds half away from zero at two decimals. The upstream bid_avg
// is a plain float; the rounding rule is pinned here so 12.345 -> 12.35 on
// every platform.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func shapeClient(ownerID int64, clients map[string]UserInfo) ClientSummary {
	cs := ClientSummary{
		Username:    "N/A",
		DisplayName: "N/A",
		Country:     "N/A",
	}
	if ownerID != 0 {
		id := ownerID
		cs.ID = &id
	}

	info, ok := lookupOwner(ownerID, clients)
	if !ok {
		return cs
	}

	if info.Username != "" {
		cs.Username = info.Username
		u := "https://www.freelancer.com/u/" + info.Username
		cs.ProfileURL = &u
	}
	if info.DisplayName != "" {
		cs.DisplayName = info.DisplayName
	}
	cs.PublicName = info.PublicName
	cs.RegistrationDate = info.RegistrationDate
	cs.Company = info.Company
	cs.Role = info.Role
	cs.ChosenRole = info.ChosenRole
	cs.LimitedAccount = info.LimitedAccount
	cs.MembershipPkg = info.MembershipPkg

	if loc := info.Location; loc != nil {
		if loc.Country != nil {
			if loc.Country.Name != "" {
				cs.Country = loc.Country.Name
			}
			if loc.Country.Code != "" {
				code := loc.Country.Code
				cs.CountryCode = &code
			}
		}
		cs.City = loc.City
	}

	switch {
	case info.AvatarLargeCDN != nil:
		cs.Avatar = info.AvatarLargeCDN
	case info.AvatarLarge != nil:
		cs.Avatar = info.AvatarLarge
	case info.AvatarCDN != nil:
		cs.Avatar = info.AvatarCDN
	}

	if rep := info.EmployerReputation; rep != nil && rep.EntireHistory != nil {
		h := rep.EntireHistory
		cs.Rating = RatingsOut{
			Overall:        h.Overall,
			OnBudget:       h.OnBudget,
			OnTime:         h.OnTime,
			Positive:       h.Positive,
			All:            h.All,
			Reviews:        h.Reviews,
			Complete:       h.Complete,
			Incomplete:     h.Incomplete,
			CompletionRate: h.CompletionRate,
			RehireRate:     h.RehireRate,
		}
		if h.Categories != nil {
			cs.Rating.CategoryRatings = CategoryRatingsOut{
				ClaritySpec:     h.Categories.ClaritySpec,
				Communication:   h.Categories.Communication,
				PaymentProm:     h.Categories.PaymentProm,
				Professionalism: h.Categories.Professionalism,
				WorkForAgain:    h.Categories.WorkForAgain,
			}
		}
	}

	if st := info.Status; st != nil {
		cs.PaymentVerified = st.PaymentVerified
		cs.EmailVerified = st.EmailVerified
		cs.DepositMade = st.DepositMade
		cs.IdentityVerified = st.IdentityVerified
		cs.PhoneVerified = st.PhoneVerified
	}

	return cs
}

func lookupOwner(ownerID int64, clients map[string]UserInfo) (UserInfo, bool) {
	if ownerID == 0 || clients == nil {
		return UserInfo{}, false
	}
	// Bulk lookup responses key users by ID as a string.
	info, ok := clients[strconv.FormatInt(ownerID, 10)]
	return info, ok
}
