package partners

import "github.com/custodia-labs/edisort/internal/core/domain"

// Interchange sender ids of the built-in partners.
const (
	AutoneumSenderID        = "GLII006"
	GAAlabamaSenderID       = "US080765057LBM"
	GAHowellSenderID        = "609284922"
	GAShelbySenderID        = "080647135"
	GASpartanburgSenderID   = "US080950568SPA"
	GATennesseeSenderID     = "GA808659114"
	HusqvarnaSenderID       = "HUSQORNGBRG"
	NavistarSenderID        = "781495650"
	OWTSenderID             = "827942173"
	shipFromQualifier       = "SF"
	husqvarnaShipFromOffset = 1
)

// Defaults returns the built-in partner profiles.
// Husqvarna names its purchase orders and change orders by ship-from plant.
func Defaults() []domain.PartnerProfile {
	return []domain.PartnerProfile{
		{SenderID: AutoneumSenderID, Name: "Autoneum", Dialect: domain.DialectX12, Prefix: "AUTONEUM"},
		{SenderID: GAAlabamaSenderID, Name: "Grupo Antolin Alabama", Dialect: domain.DialectEDIFACT, Prefix: "GAALABAMA"},
		{SenderID: GAHowellSenderID, Name: "Grupo Antolin Howell", Dialect: domain.DialectX12, Prefix: "GAHOWELL"},
		{SenderID: GAShelbySenderID, Name: "Grupo Antolin Shelby", Dialect: domain.DialectX12, Prefix: "GASHELBY"},
		{SenderID: GASpartanburgSenderID, Name: "Grupo Antolin Spartanburg", Dialect: domain.DialectEDIFACT, Prefix: "GASPARTANBURG"},
		{SenderID: GATennesseeSenderID, Name: "Grupo Antolin Tennessee", Dialect: domain.DialectEDIFACT, Prefix: "GATENNESSEE"},
		{
			SenderID: HusqvarnaSenderID,
			Name:     "Husqvarna",
			Dialect:  domain.DialectX12,
			Prefix:   "HUSQ",
			Disambiguation: &domain.DisambiguationRule{
				Locator: shipFromQualifier,
				Offset:  husqvarnaShipFromOffset,
				Types:   []string{"850", "860"},
				Codes: []domain.CodeMapping{
					{Value: "THOMSON PLASTICS", Code: "THM"},
					{Value: "THOMSON PLAS. LEXINGTON", Code: "LEX"},
				},
			},
		},
		{SenderID: NavistarSenderID, Name: "Navistar", Dialect: domain.DialectX12, Prefix: "NAVISTAR"},
		{SenderID: OWTSenderID, Name: "OWT/TTI/Ryobi", Dialect: domain.DialectX12, Prefix: "OWT"},
	}
}

// DefaultTable builds the table of built-in partners.
func DefaultTable() (*Table, error) {
	return NewTable(Defaults())
}
