package util

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

/*
Table rules file. Example:

	max-seats: 5
	base-bet: 10
	starting-balance: 1000
	mode: 2-card
	gusa-regame: false
*/
type Rules struct {
	MaxSeats        int    `yaml:"max-seats"`
	BaseBet         int64  `yaml:"base-bet"`
	StartingBalance int64  `yaml:"starting-balance"`
	Mode            string `yaml:"mode"`
	GusaRegame      bool   `yaml:"gusa-regame"`
}

func DefaultRules() Rules {
	return Rules{
		MaxSeats:        5,
		BaseBet:         10,
		StartingBalance: 1000,
		Mode:            "2-card",
		GusaRegame:      false,
	}
}

func LoadRules(fileName string) (Rules, error) {
	rules := DefaultRules()
	if fileName == "" {
		return rules, nil
	}
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return rules, errors.Wrapf(err, "Error reading rules file [%s]", fileName)
	}
	err = yaml.Unmarshal(data, &rules)
	if err != nil {
		return rules, errors.Wrapf(err, "Error parsing rules file [%s]", fileName)
	}
	if rules.MaxSeats <= 1 || rules.MaxSeats > 10 {
		return rules, errors.Errorf("Invalid max-seats %d in rules file", rules.MaxSeats)
	}
	if rules.BaseBet <= 0 {
		return rules, errors.Errorf("Invalid base-bet %d in rules file", rules.BaseBet)
	}
	return rules, nil
}
