package augment

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"popsynth/domain/microdata"
	"popsynth/internal/errors"
)

func adultPopulation(n int) []microdata.Person {
	src := rand.New(rand.NewSource(17))
	people := make([]microdata.Person, n)
	for i := range people {
		sex := microdata.SexMale
		if src.Float64() < 0.5 {
			sex = microdata.SexFemale
		}
		people[i] = microdata.Person{
			Sex: sex,
			Age: 18 + src.Intn(55), // mean age lands near 45
		}
	}
	return people
}

func TestProbability(t *testing.T) {
	m := DefaultModel()

	male := microdata.Person{Sex: microdata.SexMale, Age: 40}
	if got, want := m.Probability(male), 0.58; math.Abs(got-want) > 1e-9 {
		t.Errorf("Probability(male, 40) = %.4f, want %.4f", got, want)
	}

	female := microdata.Person{Sex: microdata.SexFemale, Age: 40}
	if got, want := m.Probability(female), 0.60; math.Abs(got-want) > 1e-9 {
		t.Errorf("Probability(female, 40) = %.4f, want %.4f", got, want)
	}
}

func TestAugment_PreservesExistingColumns(t *testing.T) {
	a := NewAugmenter(DefaultModel())
	people := adultPopulation(50)

	augmented, err := a.Augment(context.Background(), people, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Augment returned error: %v", err)
	}
	if len(augmented) != len(people) {
		t.Fatalf("Augment returned %d rows, want %d", len(augmented), len(people))
	}
	for i := range people {
		if !reflect.DeepEqual(augmented[i].Person, people[i]) {
			t.Errorf("row %d changed during augmentation: %+v vs %+v", i, augmented[i].Person, people[i])
		}
	}
}

func TestAugment_InsuredRateNearModelMean(t *testing.T) {
	a := NewAugmenter(DefaultModel())
	people := adultPopulation(2000)

	augmented, err := a.Augment(context.Background(), people, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Augment returned error: %v", err)
	}

	insured := 0
	for _, p := range augmented {
		if p.Insured {
			insured++
		}
	}
	rate := float64(insured) / float64(len(augmented))
	if rate < 0.55 || rate > 0.65 {
		t.Errorf("insured rate = %.3f, want roughly 0.60 for this population", rate)
	}
}

func TestAugment_SameStreamSameOutput(t *testing.T) {
	a := NewAugmenter(DefaultModel())
	people := adultPopulation(500)

	first, err := a.Augment(context.Background(), people, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("first run returned error: %v", err)
	}
	second, err := a.Augment(context.Background(), people, rand.New(rand.NewSource(5)))
	if err != nil {
		t.Fatalf("second run returned error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("same stream produced different insured draws")
	}
}

func TestAugment_OutOfRangeProbabilityFails(t *testing.T) {
	a := NewAugmenter(Model{Intercept: 0.9, AgeCoef: 0.01, SexCoef: 0.0})
	people := []microdata.Person{{Sex: microdata.SexMale, Age: 50}} // p = 1.4

	_, err := a.Augment(context.Background(), people, rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("Augment should fail when the model pushes p above 1")
	}
	if errors.GetCode(err) != errors.CodeConfigInvalid {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.CodeConfigInvalid)
	}
}

func TestAugment_CancelledContext(t *testing.T) {
	a := NewAugmenter(DefaultModel())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Augment(ctx, adultPopulation(10), rand.New(rand.NewSource(1)))
	if err == nil {
		t.Fatal("Augment should fail on a cancelled context")
	}
}
