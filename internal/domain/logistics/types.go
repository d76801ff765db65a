package logistics

type Language string

const (
	LanguageFR Language = "FR"
	LanguageEN Language = "EN"
)

type VendorStatus string

const (
	VendorProspecting    VendorStatus = "PROSPECTING"
	VendorQuoteRequested VendorStatus = "QUOTE_REQUESTED"
	VendorQuoteReceived  VendorStatus = "QUOTE_RECEIVED"
	VendorNegotiating    VendorStatus = "NEGOTIATING"
	VendorContracted     VendorStatus = "CONTRACTED"
	VendorCancelled      VendorStatus = "CANCELLED"
)

type PortfolioStatus string

const (
	PortfolioCurrent PortfolioStatus = "CURRENT"
	PortfolioExited  PortfolioStatus = "EXITED"
)

func (l Language) Valid() bool {
	return l == LanguageFR || l == LanguageEN
}

func (s VendorStatus) Valid() bool {
	switch s {
	case VendorProspecting, VendorQuoteRequested, VendorQuoteReceived,
		VendorNegotiating, VendorContracted, VendorCancelled:
		return true
	}
	return false
}

func (s PortfolioStatus) Valid() bool {
	return s == PortfolioCurrent || s == PortfolioExited
}
