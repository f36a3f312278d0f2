package rule

import (
	"os"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

// DefaultRules is the built-in rule set of the fact aggregator.
const DefaultRules = `
- name: calendar_free
  when: calendar == "Free"
  then: 2
- name: asset_ok
  when: asset == "OK"
  then: 1
- name: no_alert
  when: alert == ""
  then: 1
- name: within_temperature
  when: temperature <= max_temp
  then: 2
- name: learned_affinity
  value: affinity
- name: low_demand
  when: demand == "Low Demand"
  then: 1
`

// LoadFromFile reads and compiles rules from a YAML file.
func LoadFromFile(file string, envProvider func() (*cel.Env, error)) ([]Rule, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Parse(content, envProvider)
}

// Parse decodes a YAML list of rules and compiles each of them in a fresh environment.
func Parse(content []byte, envProvider func() (*cel.Env, error)) ([]Rule, error) {
	rules := []Rule{}

	err := yaml.Unmarshal(content, &rules)
	if err != nil {
		return nil, err
	}

	for i := range rules {
		env, err := envProvider()
		if err != nil {
			return nil, err
		}

		err = rules[i].Init(env)
		if err != nil {
			return nil, err
		}
	}
	return rules, nil
}
