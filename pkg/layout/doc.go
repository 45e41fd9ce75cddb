// Package layout defines the persistable layout document.
//
// A [Layout] holds everything a user can author about the arrangement of a
// hierarchy: which layout styles are anchored at which nodes ([StyleConfig]),
// the global force parameters ([ForceOptions]), the link line style and the
// viewport size the percentages in the document refer to.
//
// # Binding
//
// Style configs do not reference nodes by pointer. Each carries a [Matcher]:
// a set of independently disableable [Condition] values that re-locate the
// node after the hierarchy is rebuilt from fresh backend data.
//
// # Document Shape
//
//	{
//	  "reference_size": {"width": 1200, "height": 800},
//	  "line_config": {"style": "round"},
//	  "force_config": {"center_force": 5, "force_node": -300},
//	  "style_configs": [
//	    {
//	      "type": "hierarchy",
//	      "position": {"x": 50, "y": 50},
//	      "weight": 10,
//	      "options": {"rotation": 270, "layer_height": 80},
//	      "matcher": {"id": {"value": "root"}}
//	    }
//	  ],
//	  "origin_type": "explicit"
//	}
//
// [Validate] runs before every write to a store and rejects documents with
// fractional sizes or non-finite positions.
package layout
