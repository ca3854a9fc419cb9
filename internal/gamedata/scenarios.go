package gamedata

// ScenarioDef defines an adventure loaded from scenarios.yaml.
type ScenarioDef struct {
	ID               string         `yaml:"id"`
	Name             string         `yaml:"name"`
	Description      string         `yaml:"description"`
	MonstersToDefeat int            `yaml:"monstersToDefeat"`
	HealingSurges    int            `yaml:"healingSurges"`
	StartingXP       int            `yaml:"startingXP"`
	Tiles            map[string]int `yaml:"tiles"` // Tile ID to copies; empty uses catalog copies
}

// ScenariosFile represents the structure of scenarios.yaml.
type ScenariosFile struct {
	Scenarios []ScenarioDef `yaml:"scenarios"`
}

// LoadScenarios loads scenario definitions from the embedded scenarios.yaml file.
func LoadScenarios() ([]ScenarioDef, error) {
	file, err := LoadYAML[ScenariosFile]("scenarios.yaml")
	if err != nil {
		return nil, err
	}
	return file.Scenarios, nil
}
