// Package neat provides a Go implementation of NEAT (NeuroEvolution of Augmenting Topologies)
// restricted to feed-forward networks and driven through string client handles.
//
// NEAT evolves both the weights and the structure of neural networks. Structural genes carry
// historical markings (innovation numbers) so that the same mutation made independently in two
// genomes is recognized as the same gene, which keeps crossover and speciation meaningful.
//
// The implementation lives in the neat and neat/nn packages. Basic usage:
//
//	config, err := neat.LoadConfig("path/to/config.ini")
//	if err != nil {
//		log.Fatalf("Error loading config: %v", err)
//	}
//
//	manager, err := neat.NewManager(config, nn.ActivationFunc(nn.Sigmoid))
//	if err != nil {
//		log.Fatalf("Error creating manager: %v", err)
//	}
//
//	for i := 0; i < 150; i++ {
//		if _, err := manager.NewClient(); err != nil {
//			log.Fatalf("Error creating client: %v", err)
//		}
//	}
//
//	for generation := 0; generation < 100; generation++ {
//		for _, name := range manager.ClientNames() {
//			outputs, _ := manager.UseClient(name, []float64{0, 1})
//			_ = manager.ScoreClient(name, fitness(outputs))
//		}
//		if err := manager.UpdateClients(); err != nil {
//			log.Fatalf("Error running generation: %v", err)
//		}
//	}
package neat
