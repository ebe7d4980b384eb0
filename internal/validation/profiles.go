package validation

// Validation standards accepted by the engine.
const (
	StandardECTD = "eCTD"
	StandardSDTM = "SDTM"
	StandardADaM = "ADaM"
)

// RuleSet is the rule catalogue applied for one country/standard pair.
type RuleSet struct {
	Version string
	Rules   []string
}

var ruleSets = map[string]map[string]RuleSet{
	"USA": {
		StandardECTD: {
			Version: "4.0",
			Rules: []string{
				"FDA-21-CFR-312",
				"ICH-E3",
				"CDISC-SDTM-3.4",
				"CDISC-ADaM-1.1",
				"CDISC-DEFINE-XML-2.1",
			},
		},
		StandardSDTM: {
			Version: "3.4",
			Rules: []string{
				"SDTM-IG-3.4",
				"CDISC-TERMINOLOGY-2023-03-31",
				"FDA-SDTM-Validation",
			},
		},
		StandardADaM: {
			Version: "1.1",
			Rules: []string{
				"ADaM-IG-1.1",
				"CDISC-TERMINOLOGY-2023-03-31",
				"FDA-ADaM-Validation",
			},
		},
	},
	"JAPAN": {
		StandardECTD: {
			Version: "4.0",
			Rules:   []string{"PMDA-Guidance", "ICH-E3-JP", "CDISC-SDTM-3.4", "CDISC-ADaM-1.1"},
		},
	},
	"CANADA": {
		StandardECTD: {
			Version: "4.0",
			Rules:   []string{"Health-Canada-Guidance", "CDISC-SDTM-3.4", "CDISC-ADaM-1.1"},
		},
	},
	"UK": {
		StandardECTD: {
			Version: "4.0",
			Rules:   []string{"MHRA-Guidance", "CDISC-SDTM-3.4", "CDISC-ADaM-1.1"},
		},
	},
	"GERMANY": {
		StandardECTD: {
			Version: "4.0",
			Rules:   []string{"BfArM-Guidance", "CDISC-SDTM-3.4", "CDISC-ADaM-1.1"},
		},
	},
}

var complianceStandards = map[string][]string{
	"USA":     {"FDA-eCTD", "CDISC-SDTM", "CDISC-ADaM", "CDISC-DEFINE-XML"},
	"JAPAN":   {"PMDA-eCTD", "CDISC-SDTM", "CDISC-ADaM", "CDISC-DEFINE-XML"},
	"CANADA":  {"Health-Canada-eCTD", "CDISC-SDTM", "CDISC-ADaM"},
	"UK":      {"MHRA-eCTD", "CDISC-SDTM", "CDISC-ADaM"},
	"GERMANY": {"BfArM-eCTD", "CDISC-SDTM", "CDISC-ADaM"},
}

var agencyCountry = map[string]string{
	"FDA":           "USA",
	"PMDA":          "JAPAN",
	"Health-Canada": "CANADA",
	"MHRA":          "UK",
	"BfArM":         "GERMANY",
	"EMA":           "EUROPE",
}

// CountryOfAgency maps a regulatory agency to the country whose rule sets
// apply. Unknown agencies default to the FDA.
func CountryOfAgency(agency string) string {
	if c, ok := agencyCountry[agency]; ok {
		return c
	}
	return "USA"
}

// RulesFor returns the rule set for the country and standard. Countries
// without a catalogue for the standard fall back to the US eCTD rules.
func RulesFor(country, standard string) RuleSet {
	if byStandard, ok := ruleSets[country]; ok {
		if rs, ok := byStandard[standard]; ok {
			return rs
		}
	}
	return ruleSets["USA"][StandardECTD]
}

// ComplianceStandardsFor lists the compliance frameworks checked for a
// country.
func ComplianceStandardsFor(country string) []string {
	if s, ok := complianceStandards[country]; ok {
		return s
	}
	return complianceStandards["USA"]
}
