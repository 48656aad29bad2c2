package main

import (
	"os"
	"time"

	"github.com/matchvision/match-analyzer/pkg/api"
	"github.com/matchvision/match-analyzer/pkg/store"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		logrus.Fatalf("Error: Could not read config file, got '%v'", err)
	}

	//first - create project's data root dir
	if _, err := os.Stat(viper.GetString("directory.root")); err != nil {
		if os.IsNotExist(err) {
			if os.Mkdir(viper.GetString("directory.root"), 0766) != nil {
				logrus.Errorf("Error Creating '%s' directory, got '%v'", viper.GetString("directory.root"), err)
			}
		}
	}

	//create missing directories from config file. 'detector' points at a script, not a directory
	for key, dir := range viper.GetStringMap("directory") {
		if key == "detector" {
			continue
		}
		if _, err := os.Stat(dir.(string)); err != nil {
			if os.IsNotExist(err) {
				if os.Mkdir(dir.(string), 0766) != nil {
					logrus.Errorf("Error Creating '%s' directory, got '%v'", dir.(string), err)
				}
			}
		}
	}

	if viper.GetString("video.prod_format") == "" || viper.GetString("directory.detector") == "" {
		logrus.Fatal("Error: Missing critical configurations")
	}

	resultTTL := 24 * time.Hour
	if viper.IsSet("store.result_ttl_hours") {
		resultTTL = time.Duration(viper.GetInt("store.result_ttl_hours")) * time.Hour
	}

	st := store.NewMemoryStore(resultTTL)
	defer st.Close()

	r := api.SetRouter(st)
	if err := r.Run(":" + viper.GetString("http.port")); err != nil {
		logrus.Fatalf("Error: Got '%v'", err)
	}
}
