// Package aggregate composes content sources whose requests depend on each
// other into a single load.
//
// A Group joins a dynamically growing set of operations. An operation may
// start further operations on the same group before it returns, which is how
// dependent fetches (destinations, then one region lookup per destination
// category) are expressed:
//
//	g := aggregate.NewGroup(ctx, "destinations", logger)
//	g.Go("destinations", func(ctx context.Context, g *aggregate.Group) error {
//		doc, err := destinations.Get(ctx)
//		if err != nil {
//			return err
//		}
//		for _, category := range doc.RegionList.Categories {
//			g.Go("region", ...)
//		}
//		return nil
//	})
//	report := g.Wait()
//
// Wait returns once every operation, nested ones included, has finished.
// Failed operations are listed in the Report; they never block the join.
package aggregate
