package subtitle

import "strings"

// Spelling marker sets for dialect detection. A subtitle leaning heavily on
// one column's vocabulary gets the matching dialect tag; mixed or sparse
// evidence keeps the neutral two-letter code.
var (
	usSpellings = wordSet(
		"analyze", "apologize", "armor", "behavior", "catalog", "canceled", "center", "check", "color", "colorful",
		"counselor", "defense", "enroll", "enrollment", "favorite", "favor", "fiber", "fulfill", "fulfillment", "gray",
		"honor", "humor", "idolize", "instill", "jewelry", "judgment", "labor", "license", "liter", "maneuver", "maximize",
		"memorize", "meter", "modeling", "modeled", "modeler", "mold", "organize", "organization", "parlor", "practice", "program",
		"realize", "recognize", "rumor", "skeptic", "specialty", "theater", "traveling", "traveled", "vigor", "visualize",
		"yogurt", "curb", "neighbor", "paralyze", "offense", "pretense", "ton", "donut", "plow", "smolder", "tire", "likable",
		"labeled", "willful", "aluminum", "aging", "flavor", "endeavor", "sulfur", "distill", "mom", "anemia", "feces", "candor",
		"rigor", "vapor", "counseling", "authorize", "capitalize", "characterize", "criticize", "emphasize", "generalize",
		"equalize", "minimize", "mobilize", "optimize", "summarize", "licorice", "siphon", "pants", "cilantro", "eggplant",
		"scallion", "broil", "plexiglass", "dumpster", "scepter",
	)
	ukSpellings = wordSet(
		"analyse", "apologise", "armour", "behaviour", "catalogue", "cancelling", "cancelled", "centre", "cheque",
		"colour", "colourful", "counsellor", "defence", "enrol", "enrolment", "favourite", "favour", "fibre", "fulfil",
		"fulfilment", "grey", "honour", "humour", "idolise", "instil", "jewellery", "judgement", "labour", "licence", "litre",
		"manoeuvre", "maximise", "memorise", "metre", "modelling", "modelled", "modeller", "mould", "organise", "organisation",
		"parlour", "practise", "programme", "realise", "recognise", "rumour", "sceptic", "speciality", "theatre", "travelling",
		"travelled", "vigour", "visualise", "yoghurt", "kerb", "neighbour", "paralyse", "offence", "pretence", "tonne",
		"plough", "smoulder", "tyre", "likeable", "labelled", "wilful", "learnt", "aluminium", "whilst", "ageing", "flavour",
		"endeavour", "sulphur", "distil", "arse", "maths", "mum", "anaemia", "faeces", "candour", "rigour", "vapour",
		"counselling", "authorise", "capitalise", "characterise", "criticise", "emphasise", "generalise", "equalise", "minimise",
		"mobilise", "optimise", "summarise", "liquorice", "syphon", "nappy", "trousers", "quid", "tosser", "knackered", "courgette",
		"aubergine", "perspex", "sceptre",
	)
	castilianSpellings = wordSet(
		"vosotros", "vale", "móvil", "ordenador", "gilipollas", "zumo", "patata", "conducir", "sobremesa", "grifo",
		"tiovivo", "coche", "camarero", "venga", "genial", "maíz", "aparcamiento", "marido", "tarta", "piso", "pendiente",
		"ascensor", "cazadora", "coste", "enfadado", "quedar", "quedado", "judía", "judías", "césped", "vídeo", "fregona",
		"bragas", "fichero", "apetecer", "majo", "miedica", "repelús", "escaqueado", "chachi", "niñato", "chapuza", "vuestra",
		"vuestro", "hacedlo", "mirad", "concentraos", "mola", "flipado", "guay", "capullo", "puñeta",
	)
	latinAmericanSpellings = wordSet(
		"carro", "mesero", "mozo", "dale", "celular", "elote", "frijol", "frijoles", "troca", "estacionamiento", "parqueo", "rentarse",
		"lentes", "esposa", "esposo", "departamento", "arete", "aretes", "elevador", "básquetbol", "chamarra", "costo", "boludo",
		"enojado", "refrigerador", "poroto", "anteojos", "jugo", "subte", "computador", "computadora", "pileta", "video",
		"canilla", "trapeador", "archivo", "antojar",
	)
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		set[word] = struct{}{}
	}
	return set
}

// DetectDialect refines a neutral English or Spanish tag into a dialect tag
// (en-US/en-GB, es-ES/es-419) by counting dialect-specific vocabulary in the
// subtitle body. Evidence must outweigh the other dialect by half again or
// the neutral tag is kept. Every other language passes through unchanged.
func DetectDialect(language, body string) string {
	switch language {
	case "en":
		return scoreDialect(dialectWords(body), usSpellings, ukSpellings, "en-US", "en-GB", "en")
	case "es":
		return scoreDialect(dialectWords(body), castilianSpellings, latinAmericanSpellings, "es-ES", "es-419", "es")
	default:
		return language
	}
}

func scoreDialect(words []string, setA, setB map[string]struct{}, tagA, tagB, neutral string) string {
	var countA, countB int
	for _, word := range words {
		if _, ok := setA[word]; ok {
			countA++
		}
		if _, ok := setB[word]; ok {
			countB++
		}
	}
	switch {
	case 2*countA > 3*countB && countA > 0:
		return tagA
	case 2*countB > 3*countA && countB > 0:
		return tagB
	default:
		return neutral
	}
}

// dialectWords lowercases the body and keeps only letter runs, which drops
// SRT indices, timestamps, and markup in one pass.
func dialectWords(body string) []string {
	var b strings.Builder
	b.Grow(len(body))
	for _, r := range strings.ToLower(body) {
		if (r >= 'a' && r <= 'z') || (r >= 'à' && r <= 'ÿ') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	return strings.Fields(b.String())
}
