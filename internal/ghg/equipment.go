package ghg

// EquipmentType describes a source of Scope 1 emissions. It is carried on
// entries for reporting and does not affect the factor lookup.
type EquipmentType struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var equipmentTypes = map[string][]EquipmentType{
	"Stationary": {
		{"Boilers", "Steam and hot water generation systems"},
		{"Furnaces", "Industrial heating and melting equipment"},
		{"Burners", "Direct flame heating systems"},
		{"Turbines", "Gas and steam turbine generators"},
		{"Heaters", "Space and process heating equipment"},
		{"Kilns", "High-temperature processing equipment"},
		{"Ovens", "Industrial baking and curing systems"},
		{"Dryers", "Material drying equipment"},
		{"Internal Combustion Engines", "Stationary generators and pumps"},
		{"Incinerators", "Waste combustion systems"},
		{"Thermal Oxidizers", "Emission control equipment"},
		{"Open Burning", "Fireplaces and open flame systems"},
		{"Flares", "Safety and waste gas burning systems"},
		{"Other Stationary Equipment", "Other combustion equipment"},
	},
	"Mobile": {
		{"Automobiles", "Passenger cars and light vehicles"},
		{"Trucks", "Heavy-duty and delivery vehicles"},
		{"Buses", "Public and private transportation buses"},
		{"Trains", "Railway locomotives and rail cars"},
		{"Airplanes", "Aircraft and aviation equipment"},
		{"Boats", "Small watercraft and recreational vessels"},
		{"Ships", "Large commercial and cargo vessels"},
		{"Barges", "Inland waterway transport vessels"},
		{"Vessels", "Other marine transportation equipment"},
		{"Construction Equipment", "Mobile construction and mining equipment"},
		{"Agricultural Equipment", "Tractors and farming machinery"},
		{"Other Mobile Equipment", "Other transportation equipment"},
	},
	"Fugitive": {
		{"Equipment Leaks", "Joints, seals, packing, and gaskets"},
		{"Coal Piles", "Coal storage and handling emissions"},
		{"Wastewater Treatment", "Treatment facility emissions"},
		{"Cooling Towers", "HVAC and industrial cooling systems"},
		{"Gas Processing Facilities", "Natural gas processing emissions"},
		{"Storage Tanks", "Fuel and chemical storage emissions"},
		{"Loading Operations", "Material transfer emissions"},
		{"Venting Systems", "Intentional gas releases"},
		{"Other Fugitive Sources", "Other unintentional releases"},
	},
}

// EquipmentTypes returns the equipment types for a Scope 1 category.
func EquipmentTypes(category string) []EquipmentType {
	list := equipmentTypes[category]
	out := make([]EquipmentType, len(list))
	copy(out, list)
	return out
}
