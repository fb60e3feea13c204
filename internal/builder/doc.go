/*
Package builder resolves a blueprint into concrete graph objects.

Construction runs in passes:

 1. Model creation: one templated model per blueprint model, each created
    fresh from the template registry.

 2. Boundary creation: the global input model gets one source port per
    distinct "input.<port>" reference, mirroring the dimension and element
    type of the first consumer port it feeds. The global output model gets
    one sink per output record, mirroring the producer port.

 3. Layer creation and linking: one layer per layer record, then one link per
    consumer port binding, made on both endpoints. Port names are resolved
    against the models' name tables, so an unknown port fails with
    ir.ErrUnknownPort.

 4. Network: the layers are frozen into a network.Network, which orders
    them by height and rejects cycles and unreachable layers.
*/
package builder
