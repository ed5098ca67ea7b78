package calc

type ReferralTier struct {
	Name          string `json:"name"`
	MinFriends    int    `json:"minFriends"`
	CommissionPct int    `json:"commissionPct"`
}

var referralTiers = []ReferralTier{
	{Name: "Bronze", MinFriends: 0, CommissionPct: 10},
	{Name: "Silver", MinFriends: 6, CommissionPct: 20},
	{Name: "Gold", MinFriends: 21, CommissionPct: 30},
	{Name: "Platinum", MinFriends: 101, CommissionPct: 40},
}

func ReferralTiers() []ReferralTier {
	out := make([]ReferralTier, len(referralTiers))
	copy(out, referralTiers)
	return out
}

// TierFor: уровень по количеству приглашённых друзей.
func TierFor(friends int) ReferralTier {
	tier := referralTiers[0]
	for _, t := range referralTiers {
		if friends >= t.MinFriends {
			tier = t
		}
	}
	return tier
}
