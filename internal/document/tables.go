package document

import "strconv"

// FirstModelYear and LastModelYear bound the manufacture years accepted by
// the year scan.
const (
	FirstModelYear = 1970
	LastModelYear  = 2024
)

// Reference tables. Order is significant: scans report the first entry in
// declaration order, not the longest or the leftmost.
var (
	brands = []string{
		"ABARTH", "ALFA ROMEO", "ARO", "ASIA", "ASIA MOTORS", "ASTON MARTIN",
		"AUDI", "AUSTIN", "AUVERLAND", "BENTLEY", "BERTONE", "BMW", "CADILLAC",
		"CHEVROLET", "CHRYSLER", "CITROEN", "CORVETTE", "DACIA", "DAEWOO", "DAF",
		"DAIHATSU", "DAIMLER", "DODGE", "FERRARI", "FIAT", "FORD", "GALLOPER",
		"GMC", "HONDA", "HUMMER", "HYUNDAI", "INFINITI", "INNOCENTI", "ISUZU",
		"IVECO", "IVECO-PEGASO", "JAGUAR", "JEEP", "KIA", "LADA", "LAMBORGHINI",
		"LANCIA", "LAND-ROVER", "LDV", "LEXUS", "LOTUS", "MAHINDRA", "MASERATI",
		"MAYBACH", "MAZDA", "MERCEDES BENZ", "MG", "MINI", "MITSUBISHI", "MORGAN",
		"NISSAN", "OPEL", "PEUGEOT", "PONTIAC", "PORSCHE", "RENAULT",
		"ROLLS-ROYCE", "ROVER", "SAAB", "SANTANA", "SEAT", "SKODA", "SMART",
		"SSANGYONG", "SUBARU", "SUZUKI", "TALBOT", "TATA", "TOYOTA", "UMM", "VAZ",
		"VOLKSWAGEN", "VOLVO", "WARTBURG", "HINO", "KEEWAY", "BAJAJ", "JAC",
		"BERA", "HAOJUE", "CHERY", "MACK", "YAMAHA", "REMOLQUES",
		"MARCA DE PRUEBA", "HAIMA", "KYMC", "LINHAI", "PIAGGIO", "VENIRAUTO",
		"BATEAS GERPLAP", "FRENOS DEL AIRE DEL C", "REMOLQUEZ WAL", "DONGFENG",
		"SKYGO", "KAWASAKI", "BENELLI", "TRIUMPH", "VESPA", "HARLEY-DAVIDSON",
		"MD", "ENCAVA", "TIUNA", "SPORTSTER", "SG", "DUCATI", "CHANGAN",
		"INTERNATIONAL", "DFSK", "MAXUS", "SAIPA", "FREIGHTLINER", "TORO",
		"CHUTOS MACK", "LINCOLN",
	}

	colors = []string{
		"Rojo", "Azul", "Verde", "Negro", "Plata", "Blanco", "Gris", "Amarillo",
		"Naranja", "Violeta", "Marrón", "Beige", "Plateado", "Dorado",
		"Azul Marino", "Verde Oscuro", "Rojo Oscuro", "Azul Claro", "Verde Claro",
		"Gris Oscuro", "Gris Claro", "Negro Mate", "Blanco Perlado", "Borgoña",
	}

	models = []string{
		"GRANDE PUNTO", "PUNTO EVO", "PUNTO", "GTV", "SPIDER", "GT", "CROSSWAGON",
		"BRERA", "GIULIETTA", "SPRINT", "MITO", "DACIA", "ROCSTA", "DB7", "V8",
		"DB9", "VANQUISH", "V8 VANTAGE", "VANTAGE", "DBS", "VOLANTE", "VIRAGE",
		"VANTAGE V8", "VANTAGE V12", "RAPIDE", "CYGNET", "A4", "A6", "S6", "COUPE",
		"S2", "RS2", "A8", "CABRIOLET", "S8", "A3", "S4", "TT", "S3",
		"ALLROAD QUATTRO", "RS4", "A2", "RS6", "Q7", "R8", "A5", "S5", "TTS", "Q5",
		"A4 ALLROAD QUATTRO", "TT RS", "RS5", "A1", "A7", "RS3", "Q3",
		"A6 ALLROAD QUATTRO", "S7", "SQ5", "MINI", "MONTEGO", "MAESTRO", "METRO",
		"MINI MOKE", "DIESEL", "BROOKLANDS", "TURBO", "CONTINENTAL", "AZURE",
		"ARNAGE", "CONTINENTAL GT", "CONTINENTAL FLYING SPUR", "TURBO R",
		"MULSANNE", "EIGHT", "CONTINENTAL GTC", "CONTINENTAL SUPERSPORTS",
		"FREECLIMBER DIESEL", "SERIE 3", "SERIE 5", "COMPACT", "SERIE 7",
		"SERIE 8", "Z3", "Z4", "Z8", "X5", "SERIE 6", "X3", "SERIE 1", "Z1", "X6",
		"X1", "SEVILLE", "STS", "EL DORADO", "CTS", "XLR", "SRX", "ESCALADE",
		"BLS", "CORVETTE", "BLAZER", "ASTRO", "NUBIRA", "EVANDA", "TRANS SPORT",
		"CAMARO", "MATIZ", "ALERO", "TAHOE", "TACUMA", "TRAILBLAZER", "KALOS",
		"AVEO", "LACETTI", "EPICA", "CAPTIVA", "HHR", "CRUZE", "SPARK", "ORLANDO",
		"VOLT", "MALIBU", "VISION", "GRAND VOYAGER", "VIPER", "NEON", "VOYAGER",
		"STRATUS", "SEBRING", "SEBRING 200C", "NEW YORKER", "PT CRUISER",
		"CROSSFIRE", "XANTIA", "XM", "AX", "ZX", "EVASION", "SAXO", "XSARA",
		"XSARA PICASSO", "C5", "C3", "C3 PLURIEL", "C1", "GRAND C4 PICASSO",
		"C4 PICASSO", "CCROSSER", "JUMPER", "JUMPY", "BERLINGO", "BERLINGO FIRST",
		"C3 PICASSO", "DS3", "DS4", "DS5", "C4 AIRCROSS", "CELYSEE", "CONTAC",
		"LOGAN", "SANDERO", "DUSTER", "LODGY", "NEXIA", "ARANOS", "LANOS",
		"NUBIRA COMPACT", "LEGANZA", "APPLAUSE", "CHARADE", "ROCKY", "FEROZA",
		"TERIOS", "SIRION", "SERIE XJ", "XJ", "DOUBLE SIX", "SIX", "SERIES III",
		"CALIBER", "NITRO", "AVENGER", "JOURNEY", "F355", "F430", "F512 M",
		"550 MARANELLO", "575M MARANELLO", "456", "456M", "612", "ENZO",
		"SUPERAMERICA", "TESTAROSSA", "512", "MONDIAL", "CALIFORNIA", "458", "FF",
		"CROMA", "CINQUECENTO", "SEICENTO", "PANDA", "TIPO", "ULYSSE", "TEMPRA",
		"MAREA", "BARCHETTA", "BRAVO", "STILO", "BRAVA", "PALIO WEEKEND",
		"MULTIPLA", "IDEA", "SEDICI", "LINEA", "FIORINO", "DUCATO", "DOBLO CARGO",
		"DOBLO", "STRADA", "REGATA", "TALENTO", "ARGENTA", "RITMO", "QUBO",
		"FREEMONT", "PANDA CLASSIC", "MAVERICK", "ESCORT", "FOCUS", "MONDEO",
		"SCORPIO", "FIESTA", "PROBE", "EXPLORER", "GALAXY", "PUMA", "COUGAR",
		"FOCUS CMAX", "FUSION", "STREETKA", "CMAX", "SMAX", "TRANSIT", "COURIER",
		"RANGER", "SIERRA", "ORION", "PICK UP", "CAPRI", "GRANADA", "KUGA",
		"GRAND CMAX", "BMAX", "TOURNEO CUSTOM", "EXCEED", "SANTAMO",
		"SUPER EXCEED", "ACCORD", "CIVIC", "CRX", "PRELUDE", "NSX", "LEGEND",
		"CRV", "HRV", "LOGO", "S2000", "STREAM", "JAZZ", "FRV", "CONCERTO",
		"INSIGHT", "CRZ", "LANTRA", "SONATA", "ELANTRA", "ACCENT", "SCOUPE",
		"ATOS", "H1", "ATOS PRIME", "XG", "TRAJET", "SANTA FE", "TERRACAN",
		"MATRIX", "GETZ", "TUCSON", "I30", "PONY", "GRANDEUR", "I10", "I800",
		"SONATA FL", "IX55", "I20", "IX35", "IX20", "GENESIS", "I40", "VELOSTER",
		"G", "EX", "FX", "M", "ELBA", "MINITRE", "TROOPER", "D MAX", "RODEO",
		"DAILY", "MASSIF", "DUTY", "SERIE XK", "STYPE", "XF", "XTYPE", "WRANGLER",
		"CHEROKEE", "GRAND CHEROKEE", "COMMANDER", "COMPASS", "WRANGLER UNLIMITED",
		"PATRIOT", "SPORTAGE", "SEPHIA", "SEPHIA II", "PRIDE", "CLARUS", "SHUMA",
		"CARNIVAL", "JOICE", "MAGENTIS", "CARENS", "RIO", "CERATO", "SORENTO",
		"OPIRUS", "PICANTO", "CEED", "CEED SPORTY WAGON", "PROCEED",
		"K2500 FRONTIER", "K2500", "SOUL", "VENGA", "OPTIMA", "CEED SPORTSWAGON",
		"SAMARA", "NIVA", "SAGONA", "STAWRA 2110", "KALINA", "PRIORA", "GALLARDO",
		"MURCIELAGO", "AVENTADOR", "DELTA", "DEDRA", "LYBRA", "YPSILON", "THESIS",
		"PHEDRA", "MUSA", "THEMA", "KAPPA", "TREVI", "PRISMA", "A112",
		"YPSILON ELEFANTINO", "RANGE ROVER", "DEFENDER", "DISCOVERY", "FREELANDER",
		"RANGE ROVER SPORT", "DISCOVERY 4", "RANGE ROVER EVOQUE", "MAXUS", "LS400",
		"LS430", "GS300", "IS300",
	}

	years = func() []string {
		out := make([]string, 0, LastModelYear-FirstModelYear+1)
		for y := FirstModelYear; y <= LastModelYear; y++ {
			out = append(out, strconv.Itoa(y))
		}
		return out
	}()
)

// Brands returns a copy of the vehicle brand table.
func Brands() []string { return clone(brands) }

// Colors returns a copy of the vehicle color table.
func Colors() []string { return clone(colors) }

// Models returns a copy of the vehicle model table.
func Models() []string { return clone(models) }

// Years returns the accepted manufacture years as strings, oldest first.
func Years() []string { return clone(years) }

func clone(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}
