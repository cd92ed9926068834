package ifc

// Entity type tags.
const (
	TypeProject                   = "IFCPROJECT"
	TypeSite                      = "IFCSITE"
	TypeBuilding                  = "IFCBUILDING"
	TypeBuildingStorey            = "IFCBUILDINGSTOREY"
	TypeSpace                     = "IFCSPACE"
	TypeBuildingElementProxy      = "IFCBUILDINGELEMENTPROXY"
	TypeRelAggregates             = "IFCRELAGGREGATES"
	TypeRelContainedInSpatial     = "IFCRELCONTAINEDINSPATIALSTRUCTURE"
	TypeProductDefinitionShape    = "IFCPRODUCTDEFINITIONSHAPE"
	TypeShapeRepresentation       = "IFCSHAPEREPRESENTATION"
	TypeGeometricContext          = "IFCGEOMETRICREPRESENTATIONCONTEXT"
	TypeLocalPlacement            = "IFCLOCALPLACEMENT"
	TypeAxis2Placement2D          = "IFCAXIS2PLACEMENT2D"
	TypeAxis2Placement3D          = "IFCAXIS2PLACEMENT3D"
	TypeCartesianPoint            = "IFCCARTESIANPOINT"
	TypeCartesianPointList2D      = "IFCCARTESIANPOINTLIST2D"
	TypeCartesianPointList3D      = "IFCCARTESIANPOINTLIST3D"
	TypeDirection                 = "IFCDIRECTION"
	TypeSIUnit                    = "IFCSIUNIT"
	TypeUnitAssignment            = "IFCUNITASSIGNMENT"
	TypeTriangulatedFaceSet       = "IFCTRIANGULATEDFACESET"
	TypePolygonalFaceSet          = "IFCPOLYGONALFACESET"
	TypeIndexedPolygonalFace      = "IFCINDEXEDPOLYGONALFACE"
	TypeIndexedPolygonalFaceVoids = "IFCINDEXEDPOLYGONALFACEWITHVOIDS"
	TypeFacetedBrep               = "IFCFACETEDBREP"
	TypeFacetedBrepWithVoids      = "IFCFACETEDBREPWITHVOIDS"
	TypeFaceBasedSurfaceModel     = "IFCFACEBASEDSURFACEMODEL"
	TypeShellBasedSurfaceModel    = "IFCSHELLBASEDSURFACEMODEL"
	TypeClosedShell               = "IFCCLOSEDSHELL"
	TypeOpenShell                 = "IFCOPENSHELL"
	TypeConnectedFaceSet          = "IFCCONNECTEDFACESET"
	TypeFace                      = "IFCFACE"
	TypeFaceBound                 = "IFCFACEBOUND"
	TypeFaceOuterBound            = "IFCFACEOUTERBOUND"
	TypePolyLoop                  = "IFCPOLYLOOP"
	TypeExtrudedAreaSolid         = "IFCEXTRUDEDAREASOLID"
	TypeExtrudedAreaSolidTapered  = "IFCEXTRUDEDAREASOLIDTAPERED"
	TypeBooleanResult             = "IFCBOOLEANRESULT"
	TypeBooleanClippingResult     = "IFCBOOLEANCLIPPINGRESULT"
	TypeMappedItem                = "IFCMAPPEDITEM"
	TypeRepresentationMap         = "IFCREPRESENTATIONMAP"
	TypeTransformOperator3D       = "IFCCARTESIANTRANSFORMATIONOPERATOR3D"
	TypeTransformOperator3DNU     = "IFCCARTESIANTRANSFORMATIONOPERATOR3DNONUNIFORM"
	TypeRectangleProfile          = "IFCRECTANGLEPROFILEDEF"
	TypeRectangleHollowProfile    = "IFCRECTANGLEHOLLOWPROFILEDEF"
	TypeRoundedRectangleProfile   = "IFCROUNDEDRECTANGLEPROFILEDEF"
	TypeCircleProfile             = "IFCCIRCLEPROFILEDEF"
	TypeCircleHollowProfile       = "IFCCIRCLEHOLLOWPROFILEDEF"
	TypeEllipseProfile            = "IFCELLIPSEPROFILEDEF"
	TypeArbitraryClosedProfile    = "IFCARBITRARYCLOSEDPROFILEDEF"
	TypeArbitraryProfileWithVoids = "IFCARBITRARYPROFILEDEFWITHVOIDS"
	TypePolyline                  = "IFCPOLYLINE"
	TypeIndexedPolyCurve          = "IFCINDEXEDPOLYCURVE"
	TypeStyledItem                = "IFCSTYLEDITEM"
	TypePresentationStyleAssign   = "IFCPRESENTATIONSTYLEASSIGNMENT"
	TypeSurfaceStyle              = "IFCSURFACESTYLE"
	TypeSurfaceStyleShading       = "IFCSURFACESTYLESHADING"
	TypeSurfaceStyleRendering     = "IFCSURFACESTYLERENDERING"
	TypeColourRGB                 = "IFCCOLOURRGB"
)
