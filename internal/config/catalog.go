package config

import (
	"slices"

	"github.com/law-makers/collegecrawl/pkg/models"
)

// States lists the Indian states and union territories offered for a search.
var States = []string{
	"Andhra Pradesh",
	"Arunachal Pradesh",
	"Assam",
	"Bihar",
	"Chhattisgarh",
	"Goa",
	"Gujarat",
	"Haryana",
	"Himachal Pradesh",
	"Jharkhand",
	"Karnataka",
	"Kerala",
	"Madhya Pradesh",
	"Maharashtra",
	"Manipur",
	"Meghalaya",
	"Mizoram",
	"Nagaland",
	"Odisha",
	"Punjab",
	"Rajasthan",
	"Sikkim",
	"Tamil Nadu",
	"Telangana",
	"Tripura",
	"Uttar Pradesh",
	"Uttarakhand",
	"West Bengal",
	"Andaman and Nicobar Islands",
	"Chandigarh",
	"Dadra and Nagar Haveli and Daman and Diu",
	"Delhi",
	"Jammu and Kashmir",
	"Ladakh",
	"Lakshadweep",
	"Puducherry",
}

// Branches lists the engineering branches offered for a search, wildcard first.
var Branches = []string{
	models.AllBranches,
	"Computer Science Engineering",
	"Information Technology",
	"Electronics and Communication Engineering",
	"Electrical Engineering",
	"Mechanical Engineering",
	"Civil Engineering",
	"Chemical Engineering",
	"Aerospace Engineering",
	"Biotechnology",
	"Automobile Engineering",
	"Industrial Engineering",
	"Production Engineering",
	"Instrumentation Engineering",
	"Agricultural Engineering",
	"Mining Engineering",
	"Petroleum Engineering",
	"Textile Engineering",
	"Marine Engineering",
	"Metallurgical Engineering",
}

// CollegeTypes lists the college types a search can be narrowed to, wildcard first.
var CollegeTypes = []string{
	models.AllTypes,
	"Government",
	"Private",
	"Autonomous",
}

// IsKnownState reports whether state is in States.
func IsKnownState(state string) bool {
	return slices.Contains(States, state)
}

// IsKnownBranch reports whether branch is in Branches.
func IsKnownBranch(branch string) bool {
	return slices.Contains(Branches, branch)
}
