package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOprLog{},
	&User{},
	// Catalog
	&Product{},
	&Category{},
	&Marka{},
	&FeaturedEntry{},
}
