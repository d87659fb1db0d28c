package catalog

// specTable is the built-in catalog. Cost curves and rate contributions are
// tuned so a fresh base with one construction yard and one solar plant can
// bootstrap itself; see the balancing notes in docs if these move.
var specTable = map[Key]Spec{
	// Structures
	SolarPlants: {
		Key: SolarPlants, Kind: KindStructure,
		BaseCost: 150, GrowthFactor: 1.5,
		EnergyDelta: 25,
		EconomyRate: 5,
	},
	GasPlants: {
		Key: GasPlants, Kind: KindStructure,
		BaseCost: 300, GrowthFactor: 1.6,
		EnergyDelta:   40,
		EconomyRate:   8,
		Prerequisites: []Requirement{{Key: SolarPlants, Level: 3}},
	},
	CrystalMines: {
		Key: CrystalMines, Kind: KindStructure,
		BaseCost: 200, GrowthFactor: 1.55,
		EnergyDelta: -12,
		EconomyRate: 30,
	},
	MetalRefineries: {
		Key: MetalRefineries, Kind: KindStructure,
		BaseCost: 180, GrowthFactor: 1.5,
		EnergyDelta: -10,
		EconomyRate: 24,
	},
	ConstructionYards: {
		Key: ConstructionYards, Kind: KindStructure,
		BaseCost: 250, GrowthFactor: 1.7,
		EnergyDelta:      -15,
		ConstructionRate: 500,
	},
	Shipyards: {
		Key: Shipyards, Kind: KindStructure,
		BaseCost: 400, GrowthFactor: 1.7,
		EnergyDelta:    -20,
		ProductionRate: 400,
		Prerequisites:  []Requirement{{Key: ConstructionYards, Level: 2}},
	},
	ResearchLabs: {
		Key: ResearchLabs, Kind: KindStructure,
		BaseCost: 350, GrowthFactor: 1.75,
		EnergyDelta:  -18,
		ResearchRate: 300,
	},
	TradeHubs: {
		Key: TradeHubs, Kind: KindStructure,
		BaseCost: 500, GrowthFactor: 1.8,
		EnergyDelta: -8,
		EconomyRate: 60,
		Prerequisites: []Requirement{
			{Key: CrystalMines, Level: 2},
			{Key: MetalRefineries, Level: 2},
		},
	},

	// Defenses
	PulseTurrets: {
		Key: PulseTurrets, Kind: KindDefense,
		BaseCost: 120, GrowthFactor: 1.4,
		EnergyDelta: -5,
	},
	PlasmaBatteries: {
		Key: PlasmaBatteries, Kind: KindDefense,
		BaseCost: 450, GrowthFactor: 1.5,
		EnergyDelta:   -25,
		Prerequisites: []Requirement{{Key: EnergyTech, Level: 2}},
	},
	ShieldGenerators: {
		Key: ShieldGenerators, Kind: KindDefense,
		BaseCost: 800, GrowthFactor: 1.6,
		EnergyDelta:   -40,
		Prerequisites: []Requirement{{Key: EnergyTech, Level: 4}},
	},

	// Units: level is interpreted as fleet count, so the cost curve is flat
	Fighters: {
		Key: Fighters, Kind: KindUnit,
		BaseCost: 100, GrowthFactor: 1.0,
		Prerequisites: []Requirement{{Key: Shipyards, Level: 1}},
	},
	Corvettes: {
		Key: Corvettes, Kind: KindUnit,
		BaseCost: 350, GrowthFactor: 1.0,
		Prerequisites: []Requirement{{Key: Shipyards, Level: 2}},
	},
	Haulers: {
		Key: Haulers, Kind: KindUnit,
		BaseCost: 600, GrowthFactor: 1.0,
		Prerequisites: []Requirement{{Key: Shipyards, Level: 1}},
	},

	// Technologies
	EnergyTech: {
		Key: EnergyTech, Kind: KindTechnology,
		BaseCost: 800, GrowthFactor: 2.0,
		Boosts: RateEnergy, BonusPerLevel: 0.05,
		Prerequisites: []Requirement{{Key: ResearchLabs, Level: 1}},
	},
	ConstructionTech: {
		Key: ConstructionTech, Kind: KindTechnology,
		BaseCost: 600, GrowthFactor: 2.0,
		Boosts: RateConstruction, BonusPerLevel: 0.05,
		Prerequisites: []Requirement{{Key: ResearchLabs, Level: 1}},
	},
	ProductionTech: {
		Key: ProductionTech, Kind: KindTechnology,
		BaseCost: 700, GrowthFactor: 2.0,
		Boosts: RateProduction, BonusPerLevel: 0.05,
		Prerequisites: []Requirement{{Key: ResearchLabs, Level: 2}},
	},
	ComputerTech: {
		Key: ComputerTech, Kind: KindTechnology,
		BaseCost: 900, GrowthFactor: 2.0,
		Boosts: RateResearch, BonusPerLevel: 0.05,
		Prerequisites: []Requirement{{Key: ResearchLabs, Level: 2}},
	},
	EconomyTech: {
		Key: EconomyTech, Kind: KindTechnology,
		BaseCost: 1000, GrowthFactor: 2.0,
		Boosts: RateEconomy, BonusPerLevel: 0.05,
		Prerequisites: []Requirement{{Key: TradeHubs, Level: 1}},
	},
}
