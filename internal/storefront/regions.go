package storefront

// storefrontIDs maps every territory code the platform serves to its numeric
// storefront identifier. Observed from the storefront configuration endpoint;
// additions only, entries are never recycled.
var storefrontIDs = map[string]int{
	"ae": 143481, "ag": 143540, "ai": 143538, "am": 143524, "ao": 143564,
	"ar": 143505, "at": 143445, "au": 143460, "az": 143568, "bb": 143541,
	"bd": 143490, "be": 143446, "bg": 143526, "bh": 143559, "bm": 143542,
	"bn": 143560, "bo": 143556, "br": 143503, "bs": 143539, "bw": 143525,
	"by": 143565, "bz": 143555, "ca": 143455, "ch": 143459, "ci": 143527,
	"cl": 143483, "cn": 143465, "co": 143501, "cr": 143495, "cv": 143580,
	"cy": 143557, "cz": 143489, "de": 143443, "dk": 143458, "dm": 143545,
	"do": 143508, "dz": 143563, "ec": 143509, "ee": 143518, "eg": 143516,
	"es": 143454, "fi": 143447, "fj": 143583, "fm": 143591, "fr": 143442,
	"gb": 143444, "gd": 143546, "gh": 143573, "gm": 143584, "gr": 143448,
	"gt": 143504, "gw": 143585, "gy": 143553, "hk": 143463, "hn": 143510,
	"hr": 143494, "hu": 143482, "id": 143476, "ie": 143449, "il": 143491,
	"in": 143467, "is": 143558, "it": 143450, "jm": 143511, "jo": 143528,
	"jp": 143462, "ke": 143529, "kg": 143586, "kh": 143579, "kn": 143548,
	"kr": 143466, "kw": 143493, "ky": 143544, "kz": 143517, "la": 143587,
	"lb": 143497, "lc": 143549, "li": 143522, "lk": 143486, "lt": 143520,
	"lu": 143451, "lv": 143519, "md": 143523, "mg": 143531, "mk": 143530,
	"ml": 143532, "mn": 143592, "mo": 143515, "ms": 143547, "mt": 143521,
	"mu": 143533, "mv": 143488, "mx": 143468, "my": 143473, "mz": 143593,
	"na": 143594, "ne": 143534, "ng": 143561, "ni": 143512, "nl": 143452,
	"no": 143457, "np": 143484, "nz": 143461, "om": 143562, "pa": 143485,
	"pe": 143507, "ph": 143474, "pk": 143477, "pl": 143478, "pt": 143453,
	"py": 143513, "qa": 143498, "ro": 143487, "rs": 143500, "ru": 143469,
	"sa": 143479, "se": 143456, "sg": 143464, "si": 143499, "sk": 143496,
	"sn": 143535, "sr": 143554, "sv": 143506, "sz": 143602, "tc": 143552,
	"th": 143475, "tj": 143603, "tm": 143604, "tn": 143536, "tr": 143480,
	"tt": 143551, "tw": 143470, "tz": 143572, "ua": 143492, "ug": 143537,
	"us": 143441, "uk": 143444, "uy": 143514, "uz": 143566, "vc": 143550,
	"ve": 143502, "vg": 143543, "vn": 143471, "ye": 143571, "za": 143472,
	"zw": 143605,
}

// alwaysCheck is fetched on every run even when the provider listing omits
// them; they carry the richest subtitle catalogs.
var alwaysCheck = []string{
	"us", "gb", "ca", "cn", "de", "dk", "es", "fi",
	"fr", "it", "jp", "kr", "nl", "ru", "sv", "tw",
}

// priorityOrder moves the highest-yield storefronts to the front of the fetch
// schedule so partial results on cancellation favor them.
var priorityOrder = []string{"us", "gb", "ca", "au"}

// StorefrontID resolves a territory code to its storefront identifier.
func StorefrontID(region string) (int, bool) {
	id, ok := storefrontIDs[region]
	return id, ok
}

// Known reports whether the territory code maps to a storefront.
func Known(region string) bool {
	_, ok := storefrontIDs[region]
	return ok
}

// AllRegions returns every known territory code, unordered.
func AllRegions() []string {
	regions := make([]string, 0, len(storefrontIDs))
	for region := range storefrontIDs {
		regions = append(regions, region)
	}
	return regions
}
