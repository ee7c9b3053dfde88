package config

type RocketMQConfig struct {
	NameServer []string `json:"name_server" yaml:"name_server"`
	Topic      string   `json:"topic" yaml:"topic"`
	Producer   struct {
		Group string `json:"group" yaml:"group"`
	} `json:"producer" yaml:"producer"`
	Consumer struct {
		Group string `json:"group" yaml:"group"`
	} `json:"consumer" yaml:"consumer"`
}
