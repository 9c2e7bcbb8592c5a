package generator

import (
	"slices"

	"github.com/p-n-ai/worksheet-gen/internal/worksheet"
)

// Standard ids with a template generator.
const (
	OAA1  = "3.OA.A.1"
	OAA2  = "3.OA.A.2"
	OAA3  = "3.OA.A.3"
	OAA4  = "3.OA.A.4"
	OAB5  = "3.OA.B.5"
	OAA9  = "3.OA.A.9"
	OAC7  = "3.OA.C.7"
	OAD8  = "3.OA.D.8"
	NBTA1 = "3.NBT.A.1"
	NBTA2 = "3.NBT.A.2"
	NBTA3 = "3.NBT.A.3"
	NFA1  = "3.NF.A.1"
	NFA2  = "3.NF.A.2"
	NFA3  = "3.NF.A.3"
	GA1   = "3.G.A.1"
	GA2   = "3.G.A.2"
	MDA1a = "3.MD.A.1a"
	MDA1b = "3.MD.A.1b"
	MDA2  = "3.MD.A.2"
	MDB3  = "3.MD.B.3"
	MDB4  = "3.MD.B.4"
	MDC7  = "3.MD.C.7"
	MDC8  = "3.MD.C.8"
)

type generatorFunc func(g *Generator, req Request) (worksheet.Question, error)

var registry = map[string]generatorFunc{
	OAA1:  genMultiplication,
	OAA2:  genDivision,
	OAA3:  genWordProblems,
	OAA4:  genUnknownFactor,
	OAB5:  genProperties,
	OAA9:  genPatterns,
	OAC7:  genFluency,
	OAD8:  genTwoStep,
	NBTA1: genRounding,
	NBTA2: genAddSubtract,
	NBTA3: genTimesTens,
	NFA1:  genUnitFractions,
	NFA2:  genFractionNumberLine,
	NFA3:  genFractionCompare,
	GA1:   genShapes,
	GA2:   genEqualParts,
	MDA1a: genTime,
	MDA1b: genMoney,
	MDA2:  genVolumeMass,
	MDB3:  genGraphs,
	MDB4:  genLinePlots,
	MDC7:  genArea,
	MDC8:  genPerimeter,
}

// Standards returns the supported standard ids in sorted order.
func Standards() []string {
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Supports reports whether id has a template generator.
func Supports(id string) bool {
	_, ok := registry[id]
	return ok
}
