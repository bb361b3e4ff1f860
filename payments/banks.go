package payments

type Bank struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// NigerianBanks is the CBN bank registry used for withdrawal destinations.
var NigerianBanks = []Bank{
	{Code: "044", Name: "Access Bank"},
	{Code: "023", Name: "Citibank"},
	{Code: "050", Name: "Ecobank"},
	{Code: "070", Name: "Fidelity Bank"},
	{Code: "011", Name: "First Bank"},
	{Code: "214", Name: "First City Monument Bank"},
	{Code: "058", Name: "Guaranty Trust Bank"},
	{Code: "030", Name: "Heritage Bank"},
	{Code: "301", Name: "Jaiz Bank"},
	{Code: "082", Name: "Keystone Bank"},
	{Code: "526", Name: "Parallex Bank"},
	{Code: "076", Name: "Polaris Bank"},
	{Code: "101", Name: "Providus Bank"},
	{Code: "221", Name: "Stanbic IBTC Bank"},
	{Code: "068", Name: "Standard Chartered Bank"},
	{Code: "232", Name: "Sterling Bank"},
	{Code: "100", Name: "Suntrust Bank"},
	{Code: "032", Name: "Union Bank"},
	{Code: "033", Name: "United Bank for Africa"},
	{Code: "215", Name: "Unity Bank"},
	{Code: "035", Name: "Wema Bank"},
	{Code: "057", Name: "Zenith Bank"},
}

func BankByCode(code string) (Bank, bool) {
	for _, b := range NigerianBanks {
		if b.Code == code {
			return b, true
		}
	}
	return Bank{}, false
}
