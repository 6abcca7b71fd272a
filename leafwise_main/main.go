package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"runtime/pprof"

	"github.com/sbinet/npyio"
	"github.com/tarstars/leafwise_boosting/lwb"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	lwb.HandleError(err)
	defer func() { lwb.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	lwb.HandleError(decoder.Decode(out))
}

type PredictConfig struct {
	FeaturesFileName   string `json:"filename_features"`
	ModelFileName      string `json:"filename_model"`
	PredictionFileName string `json:"filename_prediction"`
	TreesNumber        int    `json:"trees_number"`
}

func predict(srcConfig string) {
	var predictConfig PredictConfig
	decodeConfig(srcConfig, &predictConfig)

	features := lwb.ReadNpy(predictConfig.FeaturesFileName)

	clf, err := lwb.LoadEnsemble(predictConfig.ModelFileName)
	lwb.HandleError(err)

	var optionalTreesNumber *int
	if predictConfig.TreesNumber != 0 {
		optionalTreesNumber = &predictConfig.TreesNumber
	}

	prediction := clf.PredictValue(features, optionalTreesNumber)
	dst, err := os.Create(predictConfig.PredictionFileName)
	lwb.HandleError(err)
	defer func() { lwb.HandleError(dst.Close()) }()
	lwb.HandleError(npyio.Write(dst, prediction))
}

type JSONDumpConfig struct {
	ModelFileName string `json:"filename_model"`
	DumpDirectory string `json:"dump_directory"`
	DumpPrefix    string `json:"dump_prefix"`
}

func jsonDump(srcConfig string) {
	var dumpConfig JSONDumpConfig
	decodeConfig(srcConfig, &dumpConfig)

	clf, err := lwb.LoadEnsemble(dumpConfig.ModelFileName)
	lwb.HandleError(err)

	for treeInd, currentTree := range clf.Trees {
		dump, err := currentTree.ToJSON()
		lwb.HandleError(err)
		filename := fmt.Sprintf("%s_%05d.json", dumpConfig.DumpPrefix, treeInd)
		lwb.HandleError(os.WriteFile(path.Join(dumpConfig.DumpDirectory, filename), dump, 0o644))
	}
	log.Printf("dumped %d trees", len(clf.Trees))
}

type GraphConfig struct {
	ModelFileName     string `json:"filename_model"`
	FigureType        string `json:"figure_type"`
	PicturesDirectory string `json:"pictures_directory"`
	DumpPrefix        string `json:"dump_prefix"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	clf, err := lwb.LoadEnsemble(graphConfig.ModelFileName)
	lwb.HandleError(err)
	clf.RenderTrees(graphConfig.DumpPrefix, graphConfig.FigureType, graphConfig.PicturesDirectory)
}

func main() {
	runMode := flag.String("mode", "predict", "you can select either 'predict', 'json' or 'graph' modes")
	config := flag.String("config", "leafwise_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	map[string]func(string){
		"predict": predict,
		"json":    jsonDump,
		"graph":   graph,
	}[*runMode](*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		lwb.HandleError(err)
		defer func() { lwb.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
