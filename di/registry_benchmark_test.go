package di_test

import (
	"testing"

	"github.com/sghaida/locator/di"
)

/*
   Benchmarks
*/

func BenchmarkRegister(b *testing.B) {
	r := di.NewRegistry()
	factory := func() *clock { return &clock{} }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		di.Register(r, clockKey, di.Singleton, factory)
	}
}

func BenchmarkResolve_SingletonCached(b *testing.B) {
	r := di.NewRegistry()
	di.Register(r, clockKey, di.Singleton, func() *clock { return &clock{} })
	_ = di.MustResolve(r, clockKey)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = di.Resolve(r, clockKey)
	}
}

func BenchmarkResolve_SingletonParallel(b *testing.B) {
	r := di.NewRegistry()
	di.Register(r, clockKey, di.Singleton, func() *clock { return &clock{} })

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, _ = di.Resolve(r, clockKey)
		}
	})
}

func BenchmarkResolve_Transient(b *testing.B) {
	r := di.NewRegistry()
	di.Register(r, clockKey, di.Transient, func() *clock { return &clock{} })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = di.Resolve(r, clockKey)
	}
}

func BenchmarkResolve_Missing(b *testing.B) {
	r := di.NewRegistry()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = di.Resolve(r, missingKey)
	}
}
