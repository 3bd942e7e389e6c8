package model

// Guarantee одна из отслеживаемых гарантий и её место в Benefits.
type Guarantee struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"`
	Key      string `json:"key"`
	Kind     Kind   `json:"kind"` // ожидаемый тип значения
}

// TrackedGuarantees фиксированный набор гарантий для агрегированной оценки.
var TrackedGuarantees = []Guarantee{
	{ID: "hospitalisation", Label: "Hospitalisation", Category: "HOSPITALISATION", Key: "hospitalisation", Kind: KindPercentage},
	{ID: "honoraires", Label: "Honoraires", Category: "HOSPITALISATION", Key: "honoraires", Kind: KindPercentage},
	{ID: "chambre_particuliere", Label: "Chambre particulière", Category: "HOSPITALISATION", Key: "chambre_particuliere", Kind: KindCurrency},
	{ID: "dentaire", Label: "Dentaire", Category: "DENTAIRE", Key: "soins", Kind: KindPercentage},
	{ID: "orthodontie", Label: "Orthodontie", Category: "DENTAIRE", Key: "orthodontie", Kind: KindPercentage},
	{ID: "forfait_dentaire", Label: "Forfait dentaire", Category: "DENTAIRE", Key: "forfait", Kind: KindCurrency},
	{ID: "forfait_optique", Label: "Forfait optique", Category: "OPTIQUE", Key: "forfait", Kind: KindCurrency},
}

// Offer предложение, которое нужно сопоставить с каталогом и оценить.
type Offer struct {
	Insurer string  `json:"insurer"`
	Formula string  `json:"formula"`
	Price   float64 `json:"price,omitempty"` // месячный взнос, если известен
}

type GuaranteeScore struct {
	Guarantee string          `json:"guarantee"`
	Need      string          `json:"need"`
	Contract  string          `json:"contract"`
	Result    ProximityResult `json:"result"`
}

type RankedOffer struct {
	Offer      Offer            `json:"offer"`
	Record     *ContractRecord  `json:"record"`
	Strategy   Strategy         `json:"strategy"`
	Guarantees []GuaranteeScore `json:"guarantees"`
	Aggregate  AggregateResult  `json:"aggregate"`
	Color      string           `json:"color"`
}
