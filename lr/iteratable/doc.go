/*
Package iteratable implements an insertion-ordered set which may grow while
it is iterated.

Item-set constructions for LR parsers (closure, goto) are most naturally
written as "iterate over S and add to S until nothing changes". Set supports
exactly this: an iteration started with IterateOnce visits items added
after its start, so a single loop computes the fixpoint.

Set operations (Union, Difference, Intersection) modify the receiver.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package iteratable
