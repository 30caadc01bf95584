package wine

// TablesVersion 查詢表版本，修改任何表格時遞增
const TablesVersion = "2024.3"

// countryAliases 國名別名 -> 正規國名（德文）
var countryAliases = map[string]string{
	"frankreich":         "Frankreich",
	"france":             "Frankreich",
	"italien":            "Italien",
	"italy":              "Italien",
	"italia":             "Italien",
	"italie":             "Italien",
	"spanien":            "Spanien",
	"spain":              "Spanien",
	"espana":             "Spanien",
	"espagne":            "Spanien",
	"deutschland":        "Deutschland",
	"germany":            "Deutschland",
	"allemagne":          "Deutschland",
	"osterreich":         "Österreich",
	"austria":            "Österreich",
	"autriche":           "Österreich",
	"schweiz":            "Schweiz",
	"switzerland":        "Schweiz",
	"suisse":             "Schweiz",
	"portugal":           "Portugal",
	"griechenland":       "Griechenland",
	"greece":             "Griechenland",
	"ungarn":             "Ungarn",
	"hungary":            "Ungarn",
	"usa":                "USA",
	"vereinigte staaten": "USA",
	"united states":      "USA",
	"argentinien":        "Argentinien",
	"argentina":          "Argentinien",
	"chile":              "Chile",
	"sudafrika":          "Südafrika",
	"south africa":       "Südafrika",
	"australien":         "Australien",
	"australia":          "Australien",
	"neuseeland":         "Neuseeland",
	"new zealand":        "Neuseeland",
	"libanon":            "Libanon",
	"slowenien":          "Slowenien",
	"kroatien":           "Kroatien",
}

// classificationTerms 品質／風格分級用語，永遠不能作為產區或法定產區
var classificationTerms = []string{
	"Grand Cru",
	"Grand Cru Classé",
	"Premier Grand Cru Classé",
	"Premier Cru",
	"1er Cru",
	"Cru",
	"Cru Classé",
	"Cru Bourgeois",
	"AOC",
	"AOP",
	"IGP",
	"Vin de Pays",
	"Vin de France",
	"DOC",
	"DOCG",
	"IGT",
	"DO",
	"DOCa",
	"DOQ",
	"VDP",
	"Grosses Gewächs",
	"Große Lage",
	"Erste Lage",
	"Gutswein",
	"Ortswein",
	"Qualitätswein",
	"Prädikatswein",
	"Reserva",
	"Gran Reserva",
	"Crianza",
	"Riserva",
	"Superiore",
	"Classico",
	"Vino de la Tierra",
	"Vino de Pago",
}

// countryTables 單一國家的正規化表格
type countryTables struct {
	// corrections 拼寫修正；目標為空字串代表刪除（原值其實是分級用語或雜訊）
	corrections map[string]string
	// appellationRegions 正規法定產區 -> 所屬產區
	appellationRegions map[string]string
	// regions 產區名稱
	regions []string
}

var normalizationTables = map[string]countryTables{
	"Frankreich": {
		corrections: map[string]string{
			"Saint Emilion":           "Saint-Émilion",
			"St. Emilion":             "Saint-Émilion",
			"St-Emilion":              "Saint-Émilion",
			"Saint-Emilion":           "Saint-Émilion",
			"Saint Emilion Grand Cru": "Saint-Émilion",
			"Saint Julien":            "Saint-Julien",
			"St. Julien":              "Saint-Julien",
			"Saint Estephe":           "Saint-Estèphe",
			"Saint-Estephe":           "Saint-Estèphe",
			"St. Estèphe":             "Saint-Estèphe",
			"Pessac Leognan":          "Pessac-Léognan",
			"Pessac-Leognan":          "Pessac-Léognan",
			"Chateauneuf du Pape":     "Châteauneuf-du-Pape",
			"Châteauneuf du Pape":     "Châteauneuf-du-Pape",
			"Chateauneuf-du-Pape":     "Châteauneuf-du-Pape",
			"Cotes du Rhone":          "Côtes du Rhône",
			"Côtes-du-Rhône":          "Côtes du Rhône",
			"Cote Rotie":              "Côte-Rôtie",
			"Côte Rôtie":              "Côte-Rôtie",
			"Crozes Hermitage":        "Crozes-Hermitage",
			"Pouilly Fume":            "Pouilly-Fumé",
			"Pouilly Fumé":            "Pouilly-Fumé",
			"Pouilly Fuisse":          "Pouilly-Fuissé",
			"Pouilly-Fuisse":          "Pouilly-Fuissé",
			"Nuits St. Georges":       "Nuits-Saint-Georges",
			"Nuits Saint Georges":     "Nuits-Saint-Georges",
			"Gevrey Chambertin":       "Gevrey-Chambertin",
			"Chambolle Musigny":       "Chambolle-Musigny",
			"Vosne Romanee":           "Vosne-Romanée",
			"Vosne-Romanee":           "Vosne-Romanée",
			"Puligny Montrachet":      "Puligny-Montrachet",
			"Chassagne Montrachet":    "Chassagne-Montrachet",
			"Beaujolais Villages":     "Beaujolais-Villages",
			"Cremant d'Alsace":        "Crémant d'Alsace",
			"Grand Cru":               "",
			"Premier Cru":             "",
			"1er Cru":                 "",
			"Grand Cru Classé":        "",
			"Cru Classé":              "",
			"Cru Bourgeois":           "",
			"AOC":                     "",
			"AOP":                     "",
			"Vin de France":           "",
		},
		appellationRegions: map[string]string{
			"Pauillac":             "Bordeaux",
			"Margaux":              "Bordeaux",
			"Saint-Julien":         "Bordeaux",
			"Saint-Estèphe":        "Bordeaux",
			"Saint-Émilion":        "Bordeaux",
			"Pomerol":              "Bordeaux",
			"Pessac-Léognan":       "Bordeaux",
			"Sauternes":            "Bordeaux",
			"Médoc":                "Bordeaux",
			"Haut-Médoc":           "Bordeaux",
			"Graves":               "Bordeaux",
			"Chablis":              "Burgund",
			"Meursault":            "Burgund",
			"Puligny-Montrachet":   "Burgund",
			"Chassagne-Montrachet": "Burgund",
			"Gevrey-Chambertin":    "Burgund",
			"Chambolle-Musigny":    "Burgund",
			"Vosne-Romanée":        "Burgund",
			"Nuits-Saint-Georges":  "Burgund",
			"Pommard":              "Burgund",
			"Volnay":               "Burgund",
			"Pouilly-Fuissé":       "Burgund",
			"Mâcon-Villages":       "Burgund",
			"Châteauneuf-du-Pape":  "Rhône",
			"Côtes du Rhône":       "Rhône",
			"Côte-Rôtie":           "Rhône",
			"Hermitage":            "Rhône",
			"Crozes-Hermitage":     "Rhône",
			"Gigondas":             "Rhône",
			"Condrieu":             "Rhône",
			"Sancerre":             "Loire",
			"Pouilly-Fumé":         "Loire",
			"Vouvray":              "Loire",
			"Chinon":               "Loire",
			"Muscadet":             "Loire",
			"Morgon":               "Beaujolais",
			"Fleurie":              "Beaujolais",
			"Moulin-à-Vent":        "Beaujolais",
			"Beaujolais-Villages":  "Beaujolais",
			"Crémant d'Alsace":     "Elsass",
			"Bandol":               "Provence",
			"Côtes de Provence":    "Provence",
			"Minervois":            "Languedoc",
			"Corbières":            "Languedoc",
			"Cahors":               "Südwestfrankreich",
			"Madiran":              "Südwestfrankreich",
		},
		regions: []string{
			"Bordeaux", "Burgund", "Champagne", "Elsass", "Loire", "Rhône",
			"Beaujolais", "Languedoc", "Roussillon", "Provence", "Jura",
			"Savoie", "Südwestfrankreich", "Korsika",
		},
	},
	"Italien": {
		corrections: map[string]string{
			"Chianti Classico DOCG":       "Chianti Classico",
			"Brunello di Montalcino DOCG": "Brunello di Montalcino",
			"Barolo DOCG":                 "Barolo",
			"Barbaresco DOCG":             "Barbaresco",
			"Amarone":                     "Amarone della Valpolicella",
			"Amarone Della Valpolicella":  "Amarone della Valpolicella",
			"Valpolicella Ripasso":        "Valpolicella",
			"Alto-Adige":                  "Alto Adige",
			"Südtirol DOC":                "Alto Adige",
			"Bolgheri DOC":                "Bolgheri",
			"Prosecco DOC":                "Prosecco",
			"Primitivo Di Manduria":       "Primitivo di Manduria",
			"DOC":                         "",
			"DOCG":                        "",
			"IGT":                         "",
			"Riserva":                     "",
			"Superiore":                   "",
			"Classico":                    "",
		},
		appellationRegions: map[string]string{
			"Barolo":                       "Piemont",
			"Barbaresco":                   "Piemont",
			"Barbera d'Alba":               "Piemont",
			"Gavi":                         "Piemont",
			"Chianti":                      "Toskana",
			"Chianti Classico":             "Toskana",
			"Brunello di Montalcino":       "Toskana",
			"Vino Nobile di Montepulciano": "Toskana",
			"Bolgheri":                     "Toskana",
			"Amarone della Valpolicella":   "Venetien",
			"Valpolicella":                 "Venetien",
			"Soave":                        "Venetien",
			"Prosecco":                     "Venetien",
			"Alto Adige":                   "Südtirol",
			"Etna":                         "Sizilien",
			"Primitivo di Manduria":        "Apulien",
			"Salice Salentino":             "Apulien",
			"Franciacorta":                 "Lombardei",
			"Montepulciano d'Abruzzo":      "Abruzzen",
			"Vermentino di Gallura":        "Sardinien",
			"Taurasi":                      "Kampanien",
		},
		regions: []string{
			"Piemont", "Toskana", "Venetien", "Südtirol", "Trentino", "Friaul",
			"Lombardei", "Sizilien", "Sardinien", "Apulien", "Kampanien",
			"Abruzzen", "Umbrien", "Marken",
		},
	},
	"Spanien": {
		corrections: map[string]string{
			"Ribera del Duero DO": "Ribera del Duero",
			"Ribera Del Duero":    "Ribera del Duero",
			"Priorato":            "Priorat",
			"Priorat DOQ":         "Priorat",
			"Penedes":             "Penedès",
			"Rias Baixas":         "Rías Baixas",
			"Rueda DO":            "Rueda",
			"DO":                  "",
			"DOCa":                "",
			"DOQ":                 "",
			"Reserva":             "",
			"Gran Reserva":        "",
			"Crianza":             "",
			"Vino de la Tierra":   "",
		},
		appellationRegions: map[string]string{
			"Ribera del Duero": "Kastilien und León",
			"Rueda":            "Kastilien und León",
			"Toro":             "Kastilien und León",
			"Bierzo":           "Kastilien und León",
			"Priorat":          "Katalonien",
			"Penedès":          "Katalonien",
			"Montsant":         "Katalonien",
			"Cava":             "Katalonien",
			"Rías Baixas":      "Galicien",
			"Jerez":            "Andalusien",
			"Jumilla":          "Murcia",
		},
		regions: []string{
			"Rioja", "Kastilien und León", "Katalonien", "Galicien",
			"Navarra", "Andalusien", "Murcia", "Valencia", "La Mancha",
		},
	},
	"Deutschland": {
		corrections: map[string]string{
			"Mosel-Saar-Ruwer": "Mosel",
			"Grosses Gewächs":  "",
			"Großes Gewächs":   "",
			"GG":               "",
			"VDP.Grosse Lage":  "",
			"Erste Lage":       "",
			"Qualitätswein":    "",
			"Prädikatswein":    "",
		},
		appellationRegions: map[string]string{
			"Bernkastel":  "Mosel",
			"Piesport":    "Mosel",
			"Rüdesheim":   "Rheingau",
			"Hochheim":    "Rheingau",
			"Forst":       "Pfalz",
			"Deidesheim":  "Pfalz",
			"Nierstein":   "Rheinhessen",
			"Kaiserstuhl": "Baden",
			"Escherndorf": "Franken",
		},
		regions: []string{
			"Mosel", "Rheingau", "Pfalz", "Rheinhessen", "Nahe", "Baden",
			"Franken", "Württemberg", "Ahr", "Mittelrhein", "Saale-Unstrut",
			"Sachsen",
		},
	},
	"Österreich": {
		corrections: map[string]string{
			"Wachau DAC":  "Wachau",
			"Kamptal DAC": "Kamptal",
			"DAC":         "",
			"Smaragd":     "",
		},
		appellationRegions: map[string]string{
			"Wachau":           "Niederösterreich",
			"Kamptal":          "Niederösterreich",
			"Kremstal":         "Niederösterreich",
			"Weinviertel":      "Niederösterreich",
			"Mittelburgenland": "Burgenland",
			"Neusiedlersee":    "Burgenland",
			"Südsteiermark":    "Steiermark",
		},
		regions: []string{"Niederösterreich", "Burgenland", "Steiermark", "Wien"},
	},
}

// colorKeywords 依優先順序排列：氣泡 > 甜 > 粉紅 > 白
var colorKeywords = []struct {
	color    Color
	keywords []string
}{
	{ColorSparkling, []string{
		"sekt", "winzersekt", "champagne", "champagner", "crémant", "cava",
		"prosecco", "spumante", "franciacorta", "pét-nat", "pet nat",
		"schaumwein", "sparkling", "mousseux", "perlwein", "frizzante",
		"brut", "extra brut", "blanc de blancs", "blanc de noirs",
		"moscato d'asti",
	}},
	{ColorSweet, []string{
		"sauternes", "barsac", "tokaji", "tokajer", "eiswein", "icewine",
		"beerenauslese", "trockenbeerenauslese", "ausbruch", "süßwein",
		"dessertwein", "dessert", "late harvest", "vendange tardive",
		"sélection de grains nobles", "passito", "vin santo", "recioto",
		"port", "porto", "portwein", "madeira", "banyuls", "maury",
		"pedro ximénez", "moscatel", "muscat de beaumes de venise", "edelsüß",
	}},
	{ColorRose, []string{
		"rosé", "rosato", "rosado", "weißherbst", "weissherbst", "blush",
		"schillerwein", "clairet", "vin gris", "rotling", "cerasuolo",
		"tavel",
	}},
	{ColorWhite, []string{
		"riesling", "chardonnay", "sauvignon blanc", "grüner veltliner",
		"pinot grigio", "pinot gris", "grauburgunder", "weißburgunder",
		"weissburgunder", "pinot blanc", "chenin blanc", "gewürztraminer",
		"silvaner", "müller-thurgau", "rivaner", "scheurebe", "viognier",
		"albariño", "verdejo", "vermentino", "muscadet", "chablis",
		"sancerre", "soave", "gavi", "pouilly-fumé", "sémillon", "godello",
		"torrontés", "assyrtiko", "garganega", "trebbiano", "fiano",
		"greco", "roussanne", "marsanne", "welschriesling", "furmint",
		"vin blanc", "bordeaux blanc", "bianco", "blanco", "branco", "weiß",
		"weiss", "weißwein",
		"weisswein", "white",
	}},
}

// priceKeywords 依優先順序排列：頂級 > 高價位
var priceKeywords = []struct {
	category PriceCategory
	keywords []string
}{
	{PriceLuxury, []string{
		"grand cru", "premier grand cru classé", "pétrus", "petrus",
		"romanée-conti", "la tâche", "château margaux", "château latour",
		"château lafite", "lafite rothschild", "mouton rothschild",
		"haut-brion", "château d'yquem", "cheval blanc", "sassicaia",
		"ornellaia", "masseto", "solaia", "vega sicilia", "unico",
		"pingus", "dom pérignon", "cristal", "krug", "penfolds grange",
		"opus one", "screaming eagle", "trockenbeerenauslese", "eiswein",
		"monfortino", "tignanello",
	}},
	{PricePremium, []string{
		"premier cru", "1er cru", "cru classé", "grosses gewächs",
		"großes gewächs", "gg", "erste lage", "vdp", "riserva",
		"gran reserva", "reserva", "barolo", "barbaresco", "brunello",
		"amarone", "pauillac", "margaux", "saint-julien", "saint-estèphe",
		"pomerol", "pessac-léognan", "châteauneuf-du-pape", "hermitage",
		"côte-rôtie", "meursault", "puligny-montrachet", "chassagne-montrachet",
		"gevrey-chambertin", "vosne-romanée", "priorat", "ribera del duero",
		"bolgheri", "smaragd", "spätlese", "auslese", "vintage",
	}},
}
