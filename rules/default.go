package rules

// Default returns the built-in rule set.
//
// Rare earths are listed first and read bauxite, which the second rule
// derives from lead and sulfur. The rare earths rule declares no scale
// factor, so it produces nothing until one is supplied.
func Default() Set {
	return Set{
		{
			Produces: "building_rare_earths_mine",
			Inputs:   []string{"building_bauxite_mine"},
			Op:       OpSum,
			Overrides: map[string]int64{
				// large
				"STATE_CALIFORNIA": 30,
				"STATE_HINGGAN":    30,

				// medium
				"STATE_SOUTH_MADAGASCAR": 20,
				"STATE_CONGO":            20,
				"STATE_TONKIN":           20,
				"STATE_MALAYA":           20,
				"STATE_KOLA":             20,

				// small
				"STATE_NORRLAND":              10,
				"STATE_QUEBEC":                10,
				"STATE_NORTHWEST_TERRITORIES": 10,
				"STATE_BAJA_CALIFORNIA":       10,
				"STATE_FORMOSA":               10,

				// tiny
				"STATE_RHONE":          3,
				"STATE_AQUITAINE":      3,
				"STATE_BAVARIA":        3,
				"STATE_SAXONY":         3,
				"STATE_WESTERN_SERBIA": 3,
				"STATE_TALLINN":        3,
			},
		},
		Rule{
			Produces: "building_bauxite_mine",
			Inputs:   []string{"building_lead_mine", "building_sulfur_mine"},
			Op:       OpSum,
		}.Scaled(0.5),
	}
}
