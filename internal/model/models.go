package model

// All returns every model the service migrates
func All() []interface{} {
	return []interface{}{
		&Member{},
		&Category{},
		&Product{},
		&Option{},
		&GiftOrder{},
		&WishProduct{},
		&MemberPoint{},
		&OauthToken{},
	}
}
