package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/wavelab/bestbasis/wbl"
	"gonum.org/v1/gonum/mat"
)

func decodeConfig(srcConfig string, out interface{}) {
	file, err := os.Open(srcConfig)
	wbl.HandleError(err)
	defer func() { wbl.HandleError(file.Close()) }()

	decoder := json.NewDecoder(file)
	wbl.HandleError(decoder.Decode(out))
}

//loadComputedTree loads the optional mask of the nodes that were actually
//decomposed. An empty file name means a full tree is inferred downstream.
func loadComputedTree(fileName string, arity int) *wbl.BasisTree {
	if fileName == "" {
		return nil
	}
	if arity == 0 {
		arity = 2
	}
	tree, err := wbl.TreeFromMask(wbl.ReadNpy(fileName), arity)
	wbl.HandleError(err)
	return tree
}

func saveTree(fileName, figureFileName, figureType string, tree *wbl.BasisTree, costs []float64, shifts []int) {
	wbl.WriteNpy(fileName, wbl.TreeMask(tree))
	if figureFileName != "" {
		wbl.HandleError(tree.RenderTree(figureFileName, figureType, costs, shifts))
	}
}

type BestConfig struct {
	FileNameTable  string `json:"filename_table"`
	FileNameTree   string `json:"filename_tree"`
	Arity          int    `json:"arity"`
	Cost           string `json:"cost"`
	FileNameResult string `json:"filename_result"`
	FigureFileName string `json:"filename_figure"`
	FigureType     string `json:"figure_type"`
}

func best(srcConfig string) {
	var bestConfig BestConfig
	decodeConfig(srcConfig, &bestConfig)

	log.Print("load coefficient table <", bestConfig.FileNameTable, ">")
	table := wbl.ReadNpy(bestConfig.FileNameTable)
	computed := loadComputedTree(bestConfig.FileNameTree, bestConfig.Arity)

	cf, err := wbl.NewCostFunction(bestConfig.Cost)
	wbl.HandleError(err)

	tree, err := wbl.BestBasis(table, computed, cf)
	wbl.HandleError(err)

	costs, err := wbl.CostMap(table, tree, cf)
	wbl.HandleError(err)

	saveTree(bestConfig.FileNameResult, bestConfig.FigureFileName, bestConfig.FigureType, tree, costs, nil)
}

type JbbConfig struct {
	FileNameTensor string `json:"filename_tensor"`
	FileNameTree   string `json:"filename_tree"`
	Arity          int    `json:"arity"`
	Cost           string `json:"cost"`
	FileNameResult string `json:"filename_result"`
	FigureFileName string `json:"filename_figure"`
	FigureType     string `json:"figure_type"`
}

func jbb(srcConfig string) {
	var jbbConfig JbbConfig
	decodeConfig(srcConfig, &jbbConfig)

	log.Print("load ensemble tensor <", jbbConfig.FileNameTensor, ">")
	coefs := wbl.ReadNpyTensor(jbbConfig.FileNameTensor)
	computed := loadComputedTree(jbbConfig.FileNameTree, jbbConfig.Arity)

	cf, err := wbl.NewCostFunction(jbbConfig.Cost)
	wbl.HandleError(err)

	tree, err := wbl.JointBestBasis(coefs, computed, cf)
	wbl.HandleError(err)

	saveTree(jbbConfig.FileNameResult, jbbConfig.FigureFileName, jbbConfig.FigureType, tree, nil, nil)
}

type LsdbConfig struct {
	FileNameTensors []string `json:"filename_tensors"`
	FileNameTree    string   `json:"filename_tree"`
	Arity           int      `json:"arity"`
	Measure         string   `json:"measure"`
	FileNameResult  string   `json:"filename_result"`
	FigureFileName  string   `json:"filename_figure"`
	FigureType      string   `json:"figure_type"`
}

func lsdb(srcConfig string) {
	var lsdbConfig LsdbConfig
	decodeConfig(srcConfig, &lsdbConfig)

	energyMaps := make([]*mat.Dense, 0, len(lsdbConfig.FileNameTensors))
	for _, fileName := range lsdbConfig.FileNameTensors {
		log.Print("load class tensor <", fileName, ">")
		energyMap, err := wbl.TimeFrequencyEnergyMap(wbl.ReadNpyTensor(fileName))
		wbl.HandleError(err)
		energyMaps = append(energyMaps, energyMap)
	}
	computed := loadComputedTree(lsdbConfig.FileNameTree, lsdbConfig.Arity)

	dm, err := wbl.NewDiscriminantMeasure(lsdbConfig.Measure)
	wbl.HandleError(err)

	tree, err := wbl.LeastStatisticallyDependentBasis(energyMaps, computed, dm)
	wbl.HandleError(err)

	saveTree(lsdbConfig.FileNameResult, lsdbConfig.FigureFileName, lsdbConfig.FigureType, tree, nil, nil)
}

type ShiftConfig struct {
	FileNameTensor string `json:"filename_tensor"`
	FileNameTree   string `json:"filename_tree"`
	Arity          int    `json:"arity"`
	Cost           string `json:"cost"`
	FileNameResult string `json:"filename_result"`
	FileNameShifts string `json:"filename_shifts"`
	FigureFileName string `json:"filename_figure"`
	FigureType     string `json:"figure_type"`
}

func shiftInvariant(srcConfig string) {
	var shiftConfig ShiftConfig
	decodeConfig(srcConfig, &shiftConfig)

	log.Print("load shift tensor <", shiftConfig.FileNameTensor, ">")
	coefs := wbl.ReadNpyTensor(shiftConfig.FileNameTensor)
	computed := loadComputedTree(shiftConfig.FileNameTree, shiftConfig.Arity)

	sw, err := wbl.NewShiftInvariantWPD(coefs, computed)
	wbl.HandleError(err)

	cf, err := wbl.NewCostFunction(shiftConfig.Cost)
	wbl.HandleError(err)
	wbl.HandleError(sw.BestBasis(cf))

	saveTree(shiftConfig.FileNameResult, shiftConfig.FigureFileName, shiftConfig.FigureType, sw.BestTree, nil, sw.BestShifts)

	if shiftConfig.FileNameShifts != "" {
		shifts := mat.NewDense(len(sw.BestShifts), 1, nil)
		for i, shift := range sw.BestShifts {
			shifts.Set(i, 0, float64(shift))
		}
		wbl.WriteNpy(shiftConfig.FileNameShifts, shifts)
	}
}

type EachConfig struct {
	FileNameTensor string `json:"filename_tensor"`
	FileNameTree   string `json:"filename_tree"`
	Arity          int    `json:"arity"`
	Cost           string `json:"cost"`
	FileNameResult string `json:"filename_result"`
	ThreadsNum     int    `json:"threads_num"`
}

//each runs an independent search per signal of an ensemble and stores the
//resulting masks as one nodes x signals matrix.
func each(srcConfig string) {
	var eachConfig EachConfig
	decodeConfig(srcConfig, &eachConfig)

	log.Print("load ensemble tensor <", eachConfig.FileNameTensor, ">")
	coefs := wbl.ReadNpyTensor(eachConfig.FileNameTensor)
	computed := loadComputedTree(eachConfig.FileNameTree, eachConfig.Arity)

	cf, err := wbl.NewCostFunction(eachConfig.Cost)
	wbl.HandleError(err)

	trees, err := wbl.BestBasisForEach(coefs, computed, cf, eachConfig.ThreadsNum)
	wbl.HandleError(err)

	masks := mat.NewDense(len(trees[0].Flags), len(trees), nil)
	for k, tree := range trees {
		for i, expanded := range tree.Flags {
			if expanded {
				masks.Set(i, k, 1)
			}
		}
	}
	wbl.WriteNpy(eachConfig.FileNameResult, masks)
}

type GraphConfig struct {
	FileNameTree   string `json:"filename_tree"`
	Arity          int    `json:"arity"`
	FigureFileName string `json:"filename_figure"`
	FigureType     string `json:"figure_type"`
}

func graph(srcConfig string) {
	var graphConfig GraphConfig
	decodeConfig(srcConfig, &graphConfig)

	if graphConfig.FileNameTree == "" {
		log.Fatal("graph mode needs filename_tree")
	}
	tree := loadComputedTree(graphConfig.FileNameTree, graphConfig.Arity)
	wbl.HandleError(tree.RenderTree(graphConfig.FigureFileName, graphConfig.FigureType, nil, nil))
}

func main() {
	runMode := flag.String("mode", "best", "you can select 'best', 'jbb', 'lsdb', 'shift', 'each' or 'graph' modes")
	config := flag.String("config", "bestbasis_config.json", "a config file for the run of the program")
	memprofile := flag.String("memprofile", "", "write memory profile to `file`")

	flag.Parse()

	modes := map[string]func(string){
		"best":  best,
		"jbb":   jbb,
		"lsdb":  lsdb,
		"shift": shiftInvariant,
		"each":  each,
		"graph": graph,
	}
	run, ok := modes[*runMode]
	if !ok {
		log.Fatal("unknown mode ", *runMode, ", valid modes are 'best', 'jbb', 'lsdb', 'shift', 'each' and 'graph'")
	}
	run(*config)

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		wbl.HandleError(err)
		defer func() { wbl.HandleError(f.Close()) }()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
