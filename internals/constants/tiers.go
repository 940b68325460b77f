package constants

/* =========================================================
   Tingkatan jaringan keagenan (5 level, urut dari atas)
   pusat > cabang > mitra > agen > reseller
========================================================= */

const (
	TierPusat    = "pusat"
	TierCabang   = "cabang"
	TierMitra    = "mitra"
	TierAgen     = "agen"
	TierReseller = "reseller"
)

// TierRank: makin kecil makin tinggi posisinya di jaringan.
var TierRank = map[string]int{
	TierPusat:    0,
	TierCabang:   1,
	TierMitra:    2,
	TierAgen:     3,
	TierReseller: 4,
}

// AllTiers urut dari pusat ke reseller (dipakai validasi & laporan).
var AllTiers = []string{TierPusat, TierCabang, TierMitra, TierAgen, TierReseller}

func IsValidTier(tier string) bool {
	_, ok := TierRank[tier]
	return ok
}

// TierIsAbove: true bila a berada di atas b (rank lebih kecil).
func TierIsAbove(a, b string) bool {
	ra, oka := TierRank[a]
	rb, okb := TierRank[b]
	return oka && okb && ra < rb
}
